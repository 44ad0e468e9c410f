package core

import (
	"testing"
	"time"
)

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{20, 50 * time.Millisecond},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tt := range tests {
		cfg := RuntimeConfig{TickRate: tt.rate}
		if got := cfg.TickInterval(); got != tt.want {
			t.Errorf("TickInterval() with rate %d = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ScreenW != 80 || cfg.ScreenH != 24 {
		t.Errorf("screen = %dx%d, want 80x24", cfg.ScreenW, cfg.ScreenH)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval() = %v", cfg.TickInterval())
	}
}
