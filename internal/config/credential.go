package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// CredentialEnvKey is the environment variable holding the Gemini API key.
const CredentialEnvKey = "GEMINI_API_KEY"

const redacted = "[REDACTED]"

// Credential is the secret used to authenticate against the model service.
// Formatting a Credential never prints the secret; use Value for the raw token.
type Credential string

func (c Credential) Value() string {
	return string(c)
}

func (c Credential) String() string {
	return redacted
}

func (c Credential) GoString() string {
	return redacted
}

// ConfigurationError reports a missing or unusable credential. It carries the
// variable name only.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing credential: %s %s", e.Key, e.Reason)
}

// ResolveCredential reads the credential from CredentialEnvKey.
func ResolveCredential() (Credential, error) {
	return ResolveCredentialFrom(CredentialEnvKey)
}

// ResolveCredentialFrom reads exactly one environment variable. An unset,
// empty or whitespace-only value yields a *ConfigurationError.
func ResolveCredentialFrom(key string) (Credential, error) {
	val, ok := os.LookupEnv(key)
	if !ok {
		err := &ConfigurationError{Key: key, Reason: "is not set"}
		log.Printf("✗ %v", err)
		return "", err
	}
	if strings.TrimSpace(val) == "" {
		err := &ConfigurationError{Key: key, Reason: "is empty"}
		log.Printf("✗ %v", err)
		return "", err
	}
	return Credential(val), nil
}
