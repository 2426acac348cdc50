package config

import "testing"

func validConfig() Config {
	return Config{
		MaxPositions:       10,
		MaxSellRetries:     3,
		WhaleThresholdSol:  10.0,
		BotRepeatThreshold: 3,
		ReservationTTL:     1,
		DedupTTL:           1,
		SigTrackerTTL:      1,
		PollInterval:       1,
		HeatWindowSecs:     10,
		MaxHoldSecs:        300,
		StopLossPct:        15,
		TargetTier1:        20,
		TargetTier2:        50,
		TargetTier3:        90,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsNonPositiveMaxPositions(t *testing.T) {
	c := validConfig()
	c.MaxPositions = 0
	if err := c.validate(); err == nil {
		t.Fatal("expected error for MaxPositions=0")
	}
}

func TestValidateRejectsNonIncreasingTiers(t *testing.T) {
	c := validConfig()
	c.TargetTier2 = c.TargetTier1 // not strictly increasing
	if err := c.validate(); err == nil {
		t.Fatal("expected error for non-increasing profit tiers")
	}
}

func TestValidateRejectsZeroTTL(t *testing.T) {
	c := validConfig()
	c.DedupTTL = 0
	if err := c.validate(); err == nil {
		t.Fatal("expected error for zero DedupTTL")
	}
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxPositions != 50 {
		t.Fatalf("expected default MaxPositions=50, got %d", cfg.MaxPositions)
	}
	if cfg.HTTPPort != "5339" {
		t.Fatalf("expected default port 5339, got %s", cfg.HTTPPort)
	}
}

func TestLoadHonorsOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("MAX_POSITIONS", "5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxPositions != 5 {
		t.Fatalf("expected overridden MaxPositions=5, got %d", cfg.MaxPositions)
	}
}
