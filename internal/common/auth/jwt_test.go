package auth

import (
	"testing"
	"time"

	"github.com/trustedvehicles/dealerdesk/internal/common/config"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "dealerdesk",
		Audience:  "dealerdesk-admin",
		TokenTTL:  1,
	}
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := testAuthCfg()
	token, expiresAt, err := GenerateAccessToken(cfg, "TVE-000001", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiresAt should be in the future")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "TVE-000001" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Admin" {
		t.Fatalf("roles mismatch: %v", claims.Roles)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testAuthCfg()
	token, _, err := GenerateAccessToken(cfg, "u-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := cfg
	other.JWTSecret = "another-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("token signed with another secret should fail")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testAuthCfg()
	token, _, err := GenerateAccessToken(cfg, "u-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("issuer mismatch should fail")
	}
}

func TestGenerateAccessTokenRequiresSubjectAndSecret(t *testing.T) {
	cfg := testAuthCfg()
	if _, _, err := GenerateAccessToken(cfg, "", nil, time.Hour); err == nil {
		t.Fatal("empty subject should fail")
	}
	cfg.JWTSecret = ""
	if _, _, err := GenerateAccessToken(cfg, "u-1", nil, time.Hour); err == nil {
		t.Fatal("empty secret should fail")
	}
}
