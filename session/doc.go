// Package session manages the lifecycle of agent containers: building or
// pulling the agent image, starting one container per configured replica,
// and stopping them again. Container state is never cached across processes;
// discovery goes through the runtime by name prefix.
package session
