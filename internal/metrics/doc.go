// Package metrics exposes Prometheus collectors for diff activity.
package metrics
