// Package runtime inspects the live container topology through the Docker
// Engine API. It is the read side of the container runtime boundary; starts,
// stops and builds go through the compose package.
package runtime

// Health is the readiness signal a service's own container exposes.
type Health string

const (
	// HealthHealthy means the container's health check reports healthy.
	HealthHealthy Health = "healthy"
	// HealthUnhealthy means the container's health check reports unhealthy.
	HealthUnhealthy Health = "unhealthy"
	// HealthStarting means the health check has not yet settled.
	HealthStarting Health = "starting"
	// HealthNone means the container runs but defines no health check.
	// The sequencer treats a running container without a check as ready.
	HealthNone Health = "none"
	// HealthMissing means no container exists for the service.
	HealthMissing Health = "missing"
)

// Ready reports whether the signal counts as healthy for startup gating.
func (h Health) Ready() bool {
	return h == HealthHealthy || h == HealthNone
}

// ContainerStatus describes one container of the project topology.
type ContainerStatus struct {
	// Service is the compose service name.
	Service string
	// Name is the container name.
	Name string
	// State is the runtime state (running, exited, ...).
	State string
	// Health is the polled readiness signal.
	Health Health
}
