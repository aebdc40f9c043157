package config

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"development needs nothing", Config{Env: "development"}, false},
		{"production with signing key", Config{Env: "production", JWTSigningKey: "secret"}, false},
		{"production with key and issuer", Config{Env: "production", JWTSigningKey: "secret", AuthIssuer: "clinic"}, false},
		{"production without key", Config{Env: "production"}, true},
		// An issuer alone cannot verify tokens; the keyfunc is local HMAC.
		{"production with issuer only", Config{Env: "production", AuthIssuer: "clinic"}, true},
		{"staging without key", Config{Env: "staging"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	dev := Config{Env: "development"}
	if !dev.IsDev() || dev.IsProduction() {
		t.Error("development env misclassified")
	}
	prod := Config{Env: "production"}
	if prod.IsDev() || !prod.IsProduction() {
		t.Error("production env misclassified")
	}
}
