package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/local-ai-stack/stackctl/internal/env"
)

// minSecretLength is the minimum entropy length accepted for key-like secrets.
const minSecretLength = 32

// EffectiveConfiguration is the resolved variable set for one run. It is
// produced exactly once by Resolve and passed to every downstream component;
// nothing re-reads or mutates the env file mid-run.
type EffectiveConfiguration struct {
	// Profile is the hardware profile the configuration was resolved for.
	Profile Profile
	// Environment is the exposure mode the configuration was resolved for.
	Environment Environment

	vars env.Vars
}

// Lookup returns the value for key and whether it is set.
func (ec EffectiveConfiguration) Lookup(key string) (string, bool) {
	v, ok := ec.vars[key]
	return v, ok
}

// Get returns the value for key, or the empty string.
func (ec EffectiveConfiguration) Get(key string) string {
	return ec.vars[key]
}

// Len returns the number of resolved variables.
func (ec EffectiveConfiguration) Len() int {
	return len(ec.vars)
}

// Environ renders the configuration as sorted KEY=value pairs for passing to
// the container runtime's process environment.
func (ec EffectiveConfiguration) Environ() []string {
	out := make([]string, 0, len(ec.vars))
	for k, v := range ec.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// ResolveOptions carries per-run inputs into configuration resolution.
type ResolveOptions struct {
	// EnvFile overrides the stack config's env file path when set.
	EnvFile string
	// Overrides are inline variables layered on top of file and OS values.
	Overrides env.Vars
}

// Resolve loads the base env file, merges the process environment and inline
// overrides, and validates the result against the selected services. It fails
// with MissingSecret or InvalidValue naming the offending key; it never
// mutates the base file. Failure here aborts before any container is started.
func (c *StackConfig) Resolve(sel Selection, environment Environment, opts ResolveOptions) (EffectiveConfiguration, error) {
	path := opts.EnvFile
	if path == "" {
		path = c.EnvFile
	}

	fileVars, err := env.LoadEnvFile(path)
	if err != nil {
		return EffectiveConfiguration{}, fmt.Errorf("load env file %q: %w", path, err)
	}

	merged := env.Merge(fileVars, env.FromOS(), opts.Overrides)

	ec := EffectiveConfiguration{
		Profile:     sel.Profile,
		Environment: environment,
		vars:        merged,
	}

	if err := c.validateEffective(ec, sel); err != nil {
		return EffectiveConfiguration{}, err
	}
	return ec, nil
}

// LenientResolve loads the env file without validation, for stop and status
// paths that must keep working against a partially configured installation.
// A missing env file yields just the process environment.
func (c *StackConfig) LenientResolve(opts ResolveOptions) (EffectiveConfiguration, error) {
	path := opts.EnvFile
	if path == "" {
		path = c.EnvFile
	}

	fileVars, err := env.LoadEnvFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return EffectiveConfiguration{}, fmt.Errorf("load env file %q: %w", path, err)
		}
		fileVars = nil
	}

	return EffectiveConfiguration{
		vars: env.Merge(fileVars, env.FromOS(), opts.Overrides),
	}, nil
}

// validateEffective applies the enumerable validation rules to the resolved
// variable set. Rules run in a deterministic order so the first failure is
// stable across runs.
func (c *StackConfig) validateEffective(ec EffectiveConfiguration, sel Selection) error {
	for _, svc := range sel.Services {
		for _, key := range svc.RequiredVars {
			value, ok := ec.Lookup(key)
			if !ok || strings.TrimSpace(value) == "" {
				return missingSecret(key, fmt.Sprintf("required by service %q", svc.Name))
			}
			if isPlaceholder(key, value) {
				return invalidValue(key, "still set to the shipped placeholder; run \"stackctl init\" to generate secrets")
			}
			if err := validateValue(key, value); err != nil {
				return err
			}
		}
	}

	// Hostnames are a resolution-time requirement in public mode so the
	// failure surfaces before launch, not during it.
	if ec.Environment == EnvironmentPublic {
		for _, svc := range sel.Services {
			if svc.HostnameVar == "" {
				continue
			}
			value, ok := ec.Lookup(svc.HostnameVar)
			if !ok || strings.TrimSpace(value) == "" {
				return missingSecret(svc.HostnameVar, fmt.Sprintf("public hostname for service %q", svc.Name))
			}
		}
	}

	return nil
}

// validateValue enforces per-key value rules.
func validateValue(key, value string) error {
	// The database password is interpolated into connection strings; an "@"
	// terminates the credential part of that grammar.
	if key == "POSTGRES_PASSWORD" && strings.Contains(value, "@") {
		return invalidValue(key, "must not contain '@' (breaks connection strings)")
	}

	if isEncryptionKeyVar(key) && len(value) < minSecretLength {
		return invalidValue(key, fmt.Sprintf("must be at least %d characters", minSecretLength))
	}
	return nil
}

// isEncryptionKeyVar reports whether key holds key material with a minimum
// entropy length requirement.
func isEncryptionKeyVar(key string) bool {
	switch key {
	case "JWT_SECRET", "VAULT_ENC_KEY", "ENCRYPTION_KEY", "NEXTAUTH_SECRET", "LANGFUSE_SALT":
		return true
	}
	return strings.HasSuffix(key, "_ENCRYPTION_KEY") || strings.HasSuffix(key, "_JWT_SECRET")
}
