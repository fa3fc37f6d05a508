package config

import (
	"encoding/json"
	"testing"
)

func TestConsulKVRequiresKey(t *testing.T) {
	if _, err := LoadConfigFromConsulKV("localhost", 8500, ""); err == nil {
		t.Fatal("empty key should error before dialing consul")
	}
}

func TestConfigKeyParsesFromJSON(t *testing.T) {
	raw := `{"consul": {"host": "consul.internal", "port": 8500, "config_key": "dealerdesk/admin-service"}}`
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Consul.ConfigKey != "dealerdesk/admin-service" {
		t.Fatalf("config_key mismatch: %q", cfg.Consul.ConfigKey)
	}
}

func TestDefaultConfigHasNoConsulKey(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Consul.ConfigKey != "" {
		t.Fatalf("default should read from file, got key %q", cfg.Consul.ConfigKey)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("default driver mismatch: %s", cfg.Database.Driver)
	}
}
