// Package metrics exposes Prometheus counters for the job lifecycle: jobs
// started, rejected, and completed, their duration, and whether a job is
// currently muxing.
package metrics
