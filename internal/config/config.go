// Package config contains the loader and strongly typed model for stack.yaml
// together with the configuration resolver that runs before any container is
// started.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultProject is the compose project name shared by both service groups
	// so they appear as a single topology in the container runtime.
	DefaultProject = "localai"

	// defaultPlatformTimeout bounds the wait for platform group health.
	defaultPlatformTimeout = 5 * time.Minute
	// defaultStackTimeout bounds the wait for core stack health.
	defaultStackTimeout = 10 * time.Minute
)

// Group identifies which startup phase a service belongs to.
type Group string

const (
	// GroupPlatform is the backend-as-a-service group started first.
	GroupPlatform Group = "platform"
	// GroupCoreStack is everything started once the platform is healthy.
	GroupCoreStack Group = "core-stack"
)

// ServiceDefinition describes one service of the fixed topology. Definitions
// are static: they are loaded once and never mutated at runtime.
type ServiceDefinition struct {
	// Name is the compose service name.
	Name string `yaml:"name"`
	// Group selects the startup phase (platform or core-stack).
	Group Group `yaml:"group"`
	// Profiles restricts the service to specific hardware profiles.
	// Empty means the service is included under every profile.
	Profiles []Profile `yaml:"profiles,omitempty"`
	// RequiresHealthyGroup names a group whose health gates this service's
	// startup. Enforced by the sequencer, not by operator convention.
	RequiresHealthyGroup Group `yaml:"requiresHealthyGroup,omitempty"`
	// Ports lists the native host ports published in the private environment.
	Ports []int `yaml:"ports,omitempty"`
	// Proxy marks the reverse proxy, the only externally reachable service
	// in the public environment.
	Proxy bool `yaml:"proxy,omitempty"`
	// HostnameVar names the variable holding this service's public hostname.
	// Required when the public environment is selected.
	HostnameVar string `yaml:"hostnameVar,omitempty"`
	// RequiredVars lists variables that must be present and non-empty before
	// this service may be launched.
	RequiredVars []string `yaml:"requiredVars,omitempty"`
	// Buildable marks services with a local build context that the rebuild
	// step refreshes.
	Buildable bool `yaml:"buildable,omitempty"`
	// URL is the local address announced once the run reaches Running.
	URL string `yaml:"url,omitempty"`
}

// IncludedIn reports whether the service participates in the given profile.
func (s ServiceDefinition) IncludedIn(p Profile) bool {
	if len(s.Profiles) == 0 {
		return true
	}
	for _, candidate := range s.Profiles {
		if candidate == p {
			return true
		}
	}
	return false
}

// ComposeFiles points the sequencer at the compose files of both groups and
// the per-environment override files layered on top.
type ComposeFiles struct {
	// Platform is the platform group's compose file.
	Platform string `yaml:"platform,omitempty"`
	// Stack is the core stack's compose file.
	Stack string `yaml:"stack,omitempty"`
	// PrivateOverride publishes every native service port to the host.
	PrivateOverride string `yaml:"privateOverride,omitempty"`
	// PublicOverride strips all port publishing except the proxy's 80/443.
	PublicOverride string `yaml:"publicOverride,omitempty"`
	// PublicPlatformOverride applies the public exposure to the platform group.
	PublicPlatformOverride string `yaml:"publicPlatformOverride,omitempty"`
}

// Timeouts holds string-form durations bounding the health waits.
// Empty values fall back to built-in defaults.
type Timeouts struct {
	// Platform bounds the platform group health wait (e.g. "5m").
	Platform string `yaml:"platform,omitempty"`
	// Stack bounds the core stack health wait (e.g. "10m").
	Stack string `yaml:"stack,omitempty"`
}

// StackConfig is the high-level description of the topology the sequencer
// manages. It mirrors the structure of stack.yaml.
type StackConfig struct {
	// Project is the compose project name shared by both groups.
	Project string `yaml:"project,omitempty"`
	// EnvFile is the base .env file resolved before launch.
	EnvFile string `yaml:"envFile,omitempty"`
	// PlatformDir is the directory holding the platform group's compose
	// context; the resolved env file is propagated there before startup.
	PlatformDir string `yaml:"platformDir,omitempty"`
	// SearchDir is the directory holding the metasearch engine settings.
	SearchDir string `yaml:"searchDir,omitempty"`
	// DatabaseDataDir is the platform database volume directory. The
	// sequencer never deletes it; reset-db moves it aside after confirmation.
	DatabaseDataDir string `yaml:"databaseDataDir,omitempty"`
	// Compose locates the compose files of both groups.
	Compose ComposeFiles `yaml:"compose,omitempty"`
	// Timeouts bounds the health waits per group.
	Timeouts Timeouts `yaml:"timeouts,omitempty"`
	// Services lists every service of the fixed topology.
	Services []ServiceDefinition `yaml:"services"`
}

// PlatformTimeout returns the platform health wait as a duration.
func (c *StackConfig) PlatformTimeout() time.Duration {
	return parseTimeout(c.Timeouts.Platform, defaultPlatformTimeout)
}

// StackTimeout returns the core stack health wait as a duration.
func (c *StackConfig) StackTimeout() time.Duration {
	return parseTimeout(c.Timeouts.Stack, defaultStackTimeout)
}

func parseTimeout(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ServicesInGroup returns the services of a group, in declaration order.
func (c *StackConfig) ServicesInGroup(group Group) []ServiceDefinition {
	var out []ServiceDefinition
	for _, svc := range c.Services {
		if svc.Group == group {
			out = append(out, svc)
		}
	}
	return out
}

// Service looks up a service definition by name.
func (c *StackConfig) Service(name string) (ServiceDefinition, bool) {
	for _, svc := range c.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServiceDefinition{}, false
}

// Load reads stack.yaml from path and validates it. An empty path yields the
// built-in default topology.
func Load(path string) (*StackConfig, error) {
	if path == "" {
		return DefaultStack(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stack config %q: %w", path, err)
	}

	cfg := DefaultStack()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse stack config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("stack config %q: %w", path, err)
	}
	return cfg, nil
}

// validate checks structural invariants of the topology definition.
func (c *StackConfig) validate() error {
	if c.Project == "" {
		return fmt.Errorf("project name is empty")
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("no services defined")
	}

	seen := make(map[string]struct{}, len(c.Services))
	proxies := 0
	for _, svc := range c.Services {
		if svc.Name == "" {
			return fmt.Errorf("service with empty name")
		}
		if _, dup := seen[svc.Name]; dup {
			return fmt.Errorf("duplicate service %q", svc.Name)
		}
		seen[svc.Name] = struct{}{}

		switch svc.Group {
		case GroupPlatform, GroupCoreStack:
		default:
			return fmt.Errorf("service %q has unknown group %q", svc.Name, svc.Group)
		}

		if svc.RequiresHealthyGroup != "" {
			if svc.RequiresHealthyGroup == svc.Group {
				return fmt.Errorf("service %q requires health of its own group", svc.Name)
			}
			if svc.RequiresHealthyGroup != GroupPlatform {
				return fmt.Errorf("service %q requires unknown group %q", svc.Name, svc.RequiresHealthyGroup)
			}
		}

		if svc.Proxy {
			proxies++
		}
	}

	if proxies > 1 {
		return fmt.Errorf("more than one service is marked as the reverse proxy")
	}
	return nil
}
