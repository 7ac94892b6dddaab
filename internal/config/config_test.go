package config

import (
	"os"
	"testing"
)

// chdir switches the working directory for one test and restores it
// afterwards (testing.T.Chdir needs Go 1.24; this toolchain predates it).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no voiceover.json here

	cfg := LoadConfig()

	if cfg.Engine != "system" || cfg.Voice != "Daniel" || cfg.RateWPM != 175 {
		t.Errorf("defaults = %q %q %d", cfg.Engine, cfg.Voice, cfg.RateWPM)
	}
	if cfg.ScriptPath != "narration/demo-script.txt" {
		t.Errorf("script path = %q", cfg.ScriptPath)
	}
	if cfg.OutputPath != "narration/demo-voiceover.m4a" {
		t.Errorf("output path = %q", cfg.OutputPath)
	}
	if !cfg.Preview || cfg.PlayerCommand != "afplay" {
		t.Errorf("preview defaults = %v %q", cfg.Preview, cfg.PlayerCommand)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
}

func TestFileMergeAndEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())

	err := os.WriteFile(ConfigFile, []byte(`{"voice": "Samantha", "rate_wpm": 190}`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOICEOVER_RATE_WPM", "200")

	cfg := LoadConfig()

	if cfg.Voice != "Samantha" {
		t.Errorf("voice = %q, file value should win over default", cfg.Voice)
	}
	if cfg.RateWPM != 200 {
		t.Errorf("rate = %d, env should win over file", cfg.RateWPM)
	}
	if cfg.Engine != "system" {
		t.Errorf("engine = %q, untouched fields keep their defaults", cfg.Engine)
	}
}

func TestPreviewEnvDisable(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VOICEOVER_PREVIEW", "false")

	cfg := LoadConfig()
	if cfg.Preview {
		t.Error("preview should be disabled by env")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := Default()
	cfg.Voice = "Serena"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := LoadConfig()
	if loaded.Voice != "Serena" {
		t.Errorf("voice after reload = %q, want Serena", loaded.Voice)
	}
}
