// Package config loads and validates the swarm.yaml configuration: the
// target project, the agent roster, and container-runtime settings.
// Validation happens eagerly at load time with errors naming the offending
// field.
package config
