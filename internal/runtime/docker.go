package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"
)

// Compose attaches these labels to every container it creates; they are the
// join key between service definitions and live containers.
const (
	projectLabel = "com.docker.compose.project"
	serviceLabel = "com.docker.compose.service"
)

// Docker inspects containers through the Docker Engine API.
type Docker struct {
	client *client.Client
}

// NewDocker initializes the Engine API client from the environment
// (e.g. DOCKER_HOST).
func NewDocker() (*Docker, error) {
	c, err := client.New(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Docker{client: c}, nil
}

// ProjectContainers lists every container belonging to the compose project,
// including stopped ones, with their polled health.
func (d *Docker) ProjectContainers(ctx context.Context, project string) ([]ContainerStatus, error) {
	f := make(client.Filters).
		Add("label", projectLabel+"="+project)

	containers, err := d.client.ContainerList(ctx, client.ContainerListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("list project containers (project=%s): %w", project, err)
	}

	out := make([]ContainerStatus, 0, len(containers.Items))
	for _, c := range containers.Items {
		status := ContainerStatus{
			Service: c.Labels[serviceLabel],
			State:   string(c.State),
		}
		if len(c.Names) > 0 {
			status.Name = strings.TrimPrefix(c.Names[0], "/")
		}

		health, err := d.inspectHealth(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		status.Health = health
		out = append(out, status)
	}
	return out, nil
}

// ServiceHealth returns the readiness signal for one service of the project.
// A service with no container at all reports HealthMissing.
func (d *Docker) ServiceHealth(ctx context.Context, project, service string) (Health, error) {
	f := make(client.Filters).
		Add("label", projectLabel+"="+project).
		Add("label", serviceLabel+"="+service)

	containers, err := d.client.ContainerList(ctx, client.ContainerListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return HealthMissing, fmt.Errorf("list containers for service %q: %w", service, err)
	}
	if len(containers.Items) == 0 {
		return HealthMissing, nil
	}

	return d.inspectHealth(ctx, containers.Items[0].ID)
}

func (d *Docker) inspectHealth(ctx context.Context, id string) (Health, error) {
	inspect, err := d.client.ContainerInspect(ctx, id, client.ContainerInspectOptions{})
	if err != nil {
		// Vanished between list and inspect.
		if errdefs.IsNotFound(err) {
			return HealthMissing, nil
		}
		return HealthMissing, fmt.Errorf("inspect container %q: %w", id, err)
	}

	state := inspect.Container.State
	if state == nil {
		return HealthMissing, nil
	}
	if state.Health == nil {
		if state.Running {
			return HealthNone, nil
		}
		return HealthUnhealthy, nil
	}

	switch state.Health.Status {
	case container.Healthy:
		return HealthHealthy, nil
	case container.Starting:
		return HealthStarting, nil
	case container.Unhealthy:
		return HealthUnhealthy, nil
	default:
		return HealthNone, nil
	}
}
