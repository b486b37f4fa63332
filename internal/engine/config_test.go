package engine

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SaveDir != "saves" {
		t.Errorf("SaveDir = %q, want saves", cfg.SaveDir)
	}
	if cfg.MaxEncounters != 64 {
		t.Errorf("MaxEncounters = %d, want 64", cfg.MaxEncounters)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SC_PORT", "9999")
	t.Setenv("SC_SAVE_DIR", "/tmp/combat-saves")
	t.Setenv("SC_MAX_ENCOUNTERS", "8")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "9999" || cfg.SaveDir != "/tmp/combat-saves" || cfg.MaxEncounters != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadLimit(t *testing.T) {
	t.Setenv("SC_MAX_ENCOUNTERS", "0")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig accepted a zero encounter limit")
	}

	t.Setenv("SC_MAX_ENCOUNTERS", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig accepted a non-numeric limit")
	}
}
