package secrets

import (
	"os"
	"testing"
)

func TestEnvSourceGet(t *testing.T) {
	os.Setenv("SCIHUB_USERNAME", "alice")
	os.Setenv("SCIHUB_PASSWORD", "s3cr3t")
	defer os.Unsetenv("SCIHUB_USERNAME")
	defer os.Unsetenv("SCIHUB_PASSWORD")

	cred, err := (EnvSource{}).Get(ScihubCredentials)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cred.Username != "alice" || cred.Password != "s3cr3t" {
		t.Fatalf("cred=%+v", cred)
	}
}

func TestEnvSourceGetUnknownCredential(t *testing.T) {
	if _, err := (EnvSource{}).Get("nonexistent"); err == nil {
		t.Fatal("expected error for unknown credential name")
	}
}

func TestEnvSourceGetMissingEnv(t *testing.T) {
	os.Unsetenv("INTHUB2_USERNAME")
	os.Unsetenv("INTHUB2_PASSWORD")

	if _, err := (EnvSource{}).Get(Inthub2Credentials); err == nil {
		t.Fatal("expected error when credential env vars are unset")
	}
}
