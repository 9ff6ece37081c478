// Package format holds small text formatting helpers for summaries and
// progress lines.
package format
