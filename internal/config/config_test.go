package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Addr)
	}
	if cfg.TypingTTL != 10*time.Second {
		t.Errorf("TypingTTL = %v, want 10s", cfg.TypingTTL)
	}
	if cfg.SendBuffer != 100 {
		t.Errorf("SendBuffer = %d, want 100", cfg.SendBuffer)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PALAVER_ADDR", ":9999")
	t.Setenv("PALAVER_TYPING_TTL", "3s")
	t.Setenv("PALAVER_SEND_BUFFER", "16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.TypingTTL != 3*time.Second {
		t.Errorf("TypingTTL = %v, want 3s", cfg.TypingTTL)
	}
	if cfg.SendBuffer != 16 {
		t.Errorf("SendBuffer = %d, want 16", cfg.SendBuffer)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{TypingTTL: time.Second, SendBuffer: 1}, false},
		{"zero ttl", Config{TypingTTL: 0, SendBuffer: 1}, true},
		{"negative ttl", Config{TypingTTL: -time.Second, SendBuffer: 1}, true},
		{"zero buffer", Config{TypingTTL: time.Second, SendBuffer: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
