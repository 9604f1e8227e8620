// Package git implements the coordination core of the swarm: a shared bare
// upstream repository, disposable per-agent workspace clones, and an
// optimistic task-locking protocol that uses the atomicity of remote branch
// updates as its only arbiter.
//
// Agents never talk to each other. Every claim and every change travels
// through the upstream as a commit, and a rejected push is how an agent
// learns it lost a race. Read-only views (the task registry and commit
// history) degrade to empty results on failure since they only feed the
// dashboard.
package git
