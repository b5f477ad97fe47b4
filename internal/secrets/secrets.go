// Package secrets resolves the two upstream credential pairs the download
// worker needs: scihub-credentials and inthub2-credentials (§6). Credential
// storage itself is a named collaborator/non-goal of this system; this
// package only defines the seam a real secret store would sit behind.
//
// The production path is AWS Secrets Manager or Vault, fetched once at
// worker start and cached in-process — out of scope here per the source
// spec's non-goals, so only an environment-variable-backed implementation
// is provided for local/dev use.
package secrets

import (
	"fmt"
	"os"
)

// Credential is a username/password pair.
type Credential struct {
	Username string
	Password string
}

// Source resolves a named credential.
type Source interface {
	Get(name string) (Credential, error)
}

const (
	ScihubCredentials  = "scihub-credentials"
	Inthub2Credentials = "inthub2-credentials"
)

// EnvSource reads credentials from environment variables named
// <PREFIX>_USERNAME / <PREFIX>_PASSWORD, where PREFIX is derived from the
// credential name (e.g. "scihub-credentials" -> SCIHUB_USERNAME).
type EnvSource struct{}

func (EnvSource) Get(name string) (Credential, error) {
	prefix, ok := envPrefixes[name]
	if !ok {
		return Credential{}, fmt.Errorf("unknown credential %q", name)
	}
	cred := Credential{
		Username: os.Getenv(prefix + "_USERNAME"),
		Password: os.Getenv(prefix + "_PASSWORD"),
	}
	if cred.Username == "" || cred.Password == "" {
		return Credential{}, fmt.Errorf("credential %q not configured", name)
	}
	return cred, nil
}

var envPrefixes = map[string]string{
	ScihubCredentials:  "SCIHUB",
	Inthub2Credentials: "INTHUB2",
}
