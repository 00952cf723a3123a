package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dropDatabas3/orcidgate/internal/security/secretbox"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.ORCID.AuthorizeURL != "https://orcid.org/oauth/authorize" {
		t.Errorf("ORCID.AuthorizeURL = %q", cfg.ORCID.AuthorizeURL)
	}
	if cfg.ORCID.TokenURL != "https://orcid.org/oauth/token" {
		t.Errorf("ORCID.TokenURL = %q", cfg.ORCID.TokenURL)
	}
	if cfg.ORCID.Scope != "/authenticate" {
		t.Errorf("ORCID.Scope = %q, want /authenticate", cfg.ORCID.Scope)
	}
	if cfg.Session.CookieName != "sid" {
		t.Errorf("Session.CookieName = %q, want sid", cfg.Session.CookieName)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Cache.Kind != "memory" {
		t.Errorf("Cache.Kind = %q, want memory", cfg.Cache.Kind)
	}
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: orcidgate
  base_url: https://gate.example.org
server:
  addr: ":9000"
orcid:
  client_id: from-file
`)
	t.Setenv("ORCID_CLIENT_ID", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.ORCID.ClientID != "from-env" {
		t.Errorf("ORCID.ClientID = %q, env override should win", cfg.ORCID.ClientID)
	}
}

func TestLoad_AutogeneratesRedirectURL(t *testing.T) {
	path := writeTempConfig(t, `
app:
  base_url: https://gate.example.org/
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "https://gate.example.org/auth/orcid/callback"
	if cfg.ORCID.RedirectURL != want {
		t.Errorf("ORCID.RedirectURL = %q, want %q", cfg.ORCID.RedirectURL, want)
	}
}

func TestLoad_DecryptsEncValues(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	if err := secretbox.UnsafeSetMasterKeyForTests(key); err != nil {
		t.Fatalf("set key: %v", err)
	}
	t.Cleanup(secretbox.UnsafeResetForTests)

	enc, err := secretbox.Encrypt("postgres://orcidgate:pw@localhost/orcidgate")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	path := writeTempConfig(t, `
storage:
  driver: postgres
  dsn: "enc:`+enc+`"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DSN != "postgres://orcidgate:pw@localhost/orcidgate" {
		t.Errorf("Storage.DSN not decrypted, got %q", cfg.Storage.DSN)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad duration", "session:\n  ttl: soon\n"},
		{"unknown storage driver", "storage:\n  driver: etcd\n"},
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"unknown cache kind", "cache:\n  kind: memcached\n"},
		{"rate without redis", "rate:\n  enabled: true\n"},
		{"bad samesite", "session:\n  same_site: sideways\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeTempConfig(t, tc.body)); err == nil {
				t.Errorf("Load accepted config with %s", tc.name)
			}
		})
	}
}

func TestValidate_ProdRequiresCredentials(t *testing.T) {
	path := writeTempConfig(t, `
app:
  env: prod
session:
  secure: true
`)
	if _, err := Load(path); err == nil {
		t.Error("Load accepted prod config without ORCID credentials")
	}
}
