package config

import "fmt"

// Reason classifies configuration failures surfaced before any container starts.
type Reason string

const (
	// ReasonMissingSecret indicates a required variable is absent or empty.
	ReasonMissingSecret Reason = "MissingSecret"
	// ReasonInvalidValue indicates a variable is present but unusable.
	ReasonInvalidValue Reason = "InvalidValue"
	// ReasonInvalidProfile indicates an unknown hardware profile was requested.
	ReasonInvalidProfile Reason = "InvalidProfile"
	// ReasonInvalidEnvironment indicates an unknown exposure environment was requested.
	ReasonInvalidEnvironment Reason = "InvalidEnvironment"
)

// Error is a fatal pre-launch configuration error. It always names the
// offending key or value so the operator can fix the input without digging
// through container logs.
type Error struct {
	// Reason classifies the failure.
	Reason Reason
	// Key is the offending variable, profile or environment name.
	Key string
	// Detail describes what is wrong with the value.
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Key)
	}
	return fmt.Sprintf("%s: %s: %s", e.Reason, e.Key, e.Detail)
}

func missingSecret(key, detail string) *Error {
	return &Error{Reason: ReasonMissingSecret, Key: key, Detail: detail}
}

func invalidValue(key, detail string) *Error {
	return &Error{Reason: ReasonInvalidValue, Key: key, Detail: detail}
}
