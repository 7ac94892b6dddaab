package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/jmalicki/voiceover/internal/config"
	"github.com/jmalicki/voiceover/internal/media"
	"github.com/jmalicki/voiceover/internal/tts"
)

// Quick end-to-end check of the synthesis toolchain on this machine:
// speaks one line to a temp file with the configured engine, probes it,
// prints what worked. Run it when a build machine misbehaves.
func main() {
	godotenv.Load()
	cfg := config.LoadConfig()

	provider, err := tts.NewProvider(tts.EngineType(cfg.Engine), cfg)
	if err != nil {
		fmt.Printf("Engine %q: %v\n", cfg.Engine, err)
		os.Exit(1)
	}

	fmt.Printf("Engine %s available: %v\n", provider.Name(), provider.Available())

	tmpDir, err := os.MkdirTemp("", "synthcheck-")
	if err != nil {
		fmt.Printf("Temp dir failed: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "check.m4a")
	phrase := "Narration toolchain check, one two three."

	opts := tts.Options{RateWPM: cfg.RateWPM}
	if err := provider.Synthesize(context.Background(), phrase, outPath, cfg.Voice, opts); err != nil {
		fmt.Printf("Synthesis failed: %v\n", err)
		os.Exit(1)
	}

	if info, err := os.Stat(outPath); err == nil {
		fmt.Printf("Synthesis OK: %d bytes\n", info.Size())
	}

	dur, err := media.ProbeDuration(outPath)
	if err != nil {
		fmt.Printf("Probe failed (builds will skip the duration line): %v\n", err)
	} else {
		fmt.Printf("Probe OK: %.2f seconds\n", dur)
	}
}
