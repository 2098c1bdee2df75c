package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_DSN", "APP_ENV", "IDENTITY_PROVIDER", "IDENTITY_ENDPOINT", "IDENTITY_API_KEY"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port default: %q", cfg.Port)
	}
	if cfg.DatabaseDSN != "file:garagedesk.db" {
		t.Errorf("DatabaseDSN default: %q", cfg.DatabaseDSN)
	}
	if cfg.Env != "development" {
		t.Errorf("Env default: %q", cfg.Env)
	}
	if cfg.IdentityProvider != ProviderLocal {
		t.Errorf("IdentityProvider default: %q", cfg.IdentityProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("IDENTITY_PROVIDER", ProviderREST)
	t.Setenv("IDENTITY_ENDPOINT", "https://identitytoolkit.example.com")
	t.Setenv("IDENTITY_API_KEY", "k")
	cfg := Load()
	if cfg.Port != "9000" || cfg.IdentityProvider != ProviderREST {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.IdentityEndpoint == "" || cfg.IdentityAPIKey == "" {
		t.Fatalf("identity settings not read: %+v", cfg)
	}
}

func TestParseBool(t *testing.T) {
	t.Setenv("FLAG", "")
	if ParseBool("FLAG", true) != true {
		t.Error("unset should return default")
	}
	t.Setenv("FLAG", "1")
	if !ParseBool("FLAG", false) {
		t.Error("1 should parse true")
	}
	t.Setenv("FLAG", "nonsense")
	if ParseBool("FLAG", false) {
		t.Error("invalid value should return default")
	}
}
