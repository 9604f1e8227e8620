// Package monitoring provides the read-only swarm dashboard: active task
// locks, recent upstream commits, and agent log artifacts, rendered either
// once or as a live-refreshing view. It observes through its own clone and
// never mutates the upstream repository.
package monitoring
