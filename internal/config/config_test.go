package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with defaults should succeed: %v", err)
	}
	if cfg.Sources.Timeout != 10*time.Second {
		t.Errorf("sources.timeout = %v, want 10s", cfg.Sources.Timeout)
	}
	if cfg.Sources.TW.Ticker != "0050.TW" {
		t.Errorf("tw ticker = %q", cfg.Sources.TW.Ticker)
	}
	if cfg.Report.AlwaysReport {
		t.Error("always_report should default to false")
	}
	if cfg.Line.Configured() {
		t.Error("line should not be configured without credentials")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token-from-env")
	t.Setenv("LINE_USER_ID", "U42")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}
	if cfg.Line.ChannelToken != "token-from-env" {
		t.Errorf("channel token = %q", cfg.Line.ChannelToken)
	}
	if cfg.Line.RecipientID != "U42" {
		t.Errorf("recipient id = %q", cfg.Line.RecipientID)
	}
	if cfg.Advisor.APIKey != "sk-test" {
		t.Errorf("advisor key = %q", cfg.Advisor.APIKey)
	}
	if !cfg.Line.Configured() {
		t.Error("line should be configured after env overrides")
	}
}

func TestLineConfiguredBroadcast(t *testing.T) {
	l := LineConfig{ChannelToken: "token", Broadcast: true}
	if !l.Configured() {
		t.Error("broadcast mode needs no recipient id")
	}
	l = LineConfig{ChannelToken: "token"}
	if l.Configured() {
		t.Error("push mode without recipient should not be configured")
	}
}
