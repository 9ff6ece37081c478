// Package orchestration drives comparisons end to end: it parses sources
// with a language's parser, caches prepared trees by content, runs the
// diff and fans batches of file pairs out over a bounded worker pool.
// Progress display and reporting stay behind the ProgressReporter
// interface.
package orchestration
