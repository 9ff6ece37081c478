// Package render presents diff results: Graphviz graphs of both trees,
// coloured edit listings for terminals and standalone HTML reports.
package render
