package session

import "fmt"

// ContainerPrefix names every swarm container so a later invocation can
// discover them without any in-memory state surviving between runs.
const ContainerPrefix = "swarm-"

// AgentInstance tracks a single running agent container.
type AgentInstance struct {
	ContainerID string
	AgentID     string
	Role        string
	Provider    string
	Model       string
	PromptFile  string
}

// ContainerName returns the runtime name of this agent's container.
func (a *AgentInstance) ContainerName() string {
	return ContainerPrefix + a.AgentID
}

// agentID builds the identity string for the i-th replica of a role.
func agentID(role string, index int) string {
	return fmt.Sprintf("%s-%d", role, index)
}

// InstanceStatus pairs an agent with its current container state.
type InstanceStatus struct {
	AgentID     string
	ContainerID string
	Role        string
	Model       string
	State       string
}
