package config

// SecretClass describes the shape of a generated secret replacement.
type SecretClass int

const (
	// SecretHex is a hex-encoded random secret.
	SecretHex SecretClass = iota
	// SecretAlphanumeric is a random secret drawn from letters and digits,
	// used where downstream grammars choke on punctuation.
	SecretAlphanumeric
)

// Placeholder pairs the literal placeholder value shipped in the upstream env
// template with the class and length of secret that should replace it.
type Placeholder struct {
	// Value is the placeholder literal as shipped in the template.
	Value string
	// Class selects the replacement secret alphabet.
	Class SecretClass
	// Length is the entropy length of the replacement.
	Length int
}

// PlaceholderSecrets maps variable names to their shipped placeholder values.
// The resolver rejects these values as InvalidValue; the init command replaces
// them with generated secrets.
var PlaceholderSecrets = map[string]Placeholder{
	"LOGFLARE_PUBLIC_ACCESS_TOKEN":   {Value: "your-super-secret-and-long-logflare-key-public", Class: SecretHex, Length: 32},
	"LOGFLARE_PRIVATE_ACCESS_TOKEN":  {Value: "your-super-secret-and-long-logflare-key-private", Class: SecretHex, Length: 32},
	"VAULT_ENC_KEY":                  {Value: "your-vault-encryption-key-32-chars-min", Class: SecretAlphanumeric, Length: 32},
	"N8N_ENCRYPTION_KEY":             {Value: "super-secret-key", Class: SecretHex, Length: 32},
	"N8N_USER_MANAGEMENT_JWT_SECRET": {Value: "even-more-secret", Class: SecretHex, Length: 32},
	"CLICKHOUSE_PASSWORD":            {Value: "super-secret-key-1", Class: SecretAlphanumeric, Length: 32},
	"MINIO_ROOT_PASSWORD":            {Value: "super-secret-key-2", Class: SecretAlphanumeric, Length: 32},
	"LANGFUSE_SALT":                  {Value: "super-secret-key-3", Class: SecretHex, Length: 32},
	"NEXTAUTH_SECRET":                {Value: "super-secret-key-4", Class: SecretHex, Length: 32},
	"ENCRYPTION_KEY":                 {Value: "generate-with-openssl", Class: SecretHex, Length: 32},
	"JWT_SECRET":                     {Value: "your-super-secret-jwt-token-with-at-least-32-characters-long", Class: SecretAlphanumeric, Length: 40},
	"POSTGRES_PASSWORD":              {Value: "this_password_is_insecure_and_should_be_updated", Class: SecretAlphanumeric, Length: 32},
}

// isPlaceholder reports whether value is the shipped placeholder for key.
func isPlaceholder(key, value string) bool {
	p, ok := PlaceholderSecrets[key]
	return ok && p.Value == value
}
