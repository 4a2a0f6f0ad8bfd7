package config

import "fmt"

// Environment is the network-exposure selection. Closed enumeration.
type Environment string

const (
	// EnvironmentPrivate publishes every service's native port to the host.
	EnvironmentPrivate Environment = "private"
	// EnvironmentPublic publishes only the reverse proxy's 80 and 443; the
	// proxy terminates TLS and routes by hostname to internal service ports.
	EnvironmentPublic Environment = "public"
)

// Environments lists every valid environment, for flag help and tests.
func Environments() []Environment {
	return []Environment{EnvironmentPrivate, EnvironmentPublic}
}

// ParseEnvironment converts a textual environment into the enumeration.
func ParseEnvironment(value string) (Environment, error) {
	switch Environment(value) {
	case EnvironmentPrivate, EnvironmentPublic:
		return Environment(value), nil
	default:
		return "", &Error{
			Reason: ReasonInvalidEnvironment,
			Key:    value,
			Detail: fmt.Sprintf("expected one of %v", Environments()),
		}
	}
}

// Exposure is the outcome of environment selection: the compose override
// files layered onto each group's base compose file.
type Exposure struct {
	// Environment is the requested exposure mode.
	Environment Environment
	// PlatformOverrides are layered onto the platform group's compose file.
	PlatformOverrides []string
	// StackOverrides are layered onto the core stack's compose file.
	StackOverrides []string
}

// Expose maps the requested environment to the port-publishing overlays.
// Pure: it never touches the container runtime.
func (c *StackConfig) Expose(e Environment) (Exposure, error) {
	if _, err := ParseEnvironment(string(e)); err != nil {
		return Exposure{}, err
	}

	exp := Exposure{Environment: e}
	switch e {
	case EnvironmentPrivate:
		if c.Compose.PrivateOverride != "" {
			exp.StackOverrides = append(exp.StackOverrides, c.Compose.PrivateOverride)
		}
	case EnvironmentPublic:
		if c.Compose.PublicOverride != "" {
			exp.StackOverrides = append(exp.StackOverrides, c.Compose.PublicOverride)
		}
		if c.Compose.PublicPlatformOverride != "" {
			exp.PlatformOverrides = append(exp.PlatformOverrides, c.Compose.PublicPlatformOverride)
		}
	}
	return exp, nil
}

// PublishedPorts returns the host ports published per service for the given
// selection and environment. In public mode only the reverse proxy's 80/443
// remain reachable from outside.
func (c *StackConfig) PublishedPorts(sel Selection, e Environment) map[string][]int {
	out := make(map[string][]int)
	for _, svc := range sel.Services {
		switch e {
		case EnvironmentPublic:
			if svc.Proxy {
				out[svc.Name] = []int{80, 443}
			}
		default:
			if len(svc.Ports) > 0 {
				out[svc.Name] = append([]int(nil), svc.Ports...)
			}
		}
	}
	return out
}
