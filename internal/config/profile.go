package config

import "fmt"

// Profile is the hardware-acceleration selection. It is a closed enumeration;
// adding a profile means extending the switch in ParseProfile and Select.
type Profile string

const (
	// ProfileNone runs the topology without the local inference server; the
	// operator supplies one externally, reachable via the host loopback alias.
	ProfileNone Profile = "none"
	// ProfileCPU runs the inference server in CPU-only mode.
	ProfileCPU Profile = "cpu"
	// ProfileGPUNvidia runs the inference server with Nvidia device access.
	ProfileGPUNvidia Profile = "gpu-nvidia"
	// ProfileGPUAMD runs the inference server with AMD device access.
	ProfileGPUAMD Profile = "gpu-amd"
)

// Profiles lists every valid profile, for flag help and tests.
func Profiles() []Profile {
	return []Profile{ProfileNone, ProfileCPU, ProfileGPUNvidia, ProfileGPUAMD}
}

// ParseProfile converts a textual profile into the enumeration, failing with
// InvalidProfile before any launch action for unknown values.
func ParseProfile(value string) (Profile, error) {
	switch Profile(value) {
	case ProfileNone, ProfileCPU, ProfileGPUNvidia, ProfileGPUAMD:
		return Profile(value), nil
	default:
		return "", &Error{
			Reason: ReasonInvalidProfile,
			Key:    value,
			Detail: fmt.Sprintf("expected one of %v", Profiles()),
		}
	}
}

// ComposeProfile is the compose profile flag value for this selection.
// ProfileNone maps to no compose profile at all.
func (p Profile) ComposeProfile() string {
	if p == ProfileNone {
		return ""
	}
	return string(p)
}

// Selection is the outcome of profile selection: the services included in the
// run and the device flags the inference server needs.
type Selection struct {
	// Profile is the requested profile.
	Profile Profile
	// Services are the included definitions, in declaration order.
	Services []ServiceDefinition
	// DeviceFlags are the container runtime device-access flags implied by
	// the profile. Informational; the compose profile carries the same intent.
	DeviceFlags []string
}

// ServiceNames returns the included service names in order.
func (s Selection) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		names = append(names, svc.Name)
	}
	return names
}

// Includes reports whether the named service is part of the selection.
func (s Selection) Includes(name string) bool {
	for _, svc := range s.Services {
		if svc.Name == name {
			return true
		}
	}
	return false
}

// Select maps the requested profile to the included service definitions and
// runtime device flags. Pure: it never touches the container runtime.
func (c *StackConfig) Select(p Profile) (Selection, error) {
	if _, err := ParseProfile(string(p)); err != nil {
		return Selection{}, err
	}

	sel := Selection{Profile: p}
	for _, svc := range c.Services {
		if svc.IncludedIn(p) {
			sel.Services = append(sel.Services, svc)
		}
	}

	switch p {
	case ProfileGPUNvidia:
		sel.DeviceFlags = []string{"--gpus", "all"}
	case ProfileGPUAMD:
		sel.DeviceFlags = []string{"--device=/dev/kfd", "--device=/dev/dri"}
	}
	return sel, nil
}
