package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmalicki/voiceover/internal/builder"
	"github.com/jmalicki/voiceover/internal/config"
	"github.com/jmalicki/voiceover/internal/history"
	"github.com/jmalicki/voiceover/internal/media"
	"github.com/jmalicki/voiceover/internal/tts"
)

func main() {
	godotenv.Load()

	// No flags. The build is described entirely by the config record;
	// run it, read the report, done.
	cfg := config.LoadConfig()

	provider, err := tts.NewProvider(tts.EngineType(cfg.Engine), cfg)
	if err != nil {
		fmt.Printf("Error: %v: %q\n", err, cfg.Engine)
		os.Exit(1)
	}
	if !provider.Available() {
		fmt.Printf("Warning: %s engine looks unavailable on this machine, synthesis may fail\n", provider.Name())
	}

	fmt.Printf("Building voiceover from %s (%s voice %q, %d wpm)\n",
		cfg.ScriptPath, provider.Name(), cfg.Voice, cfg.RateWPM)

	b := builder.New(cfg, provider)
	rep, err := b.Build(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	rep.Print()
	appendHistory(cfg, rep)

	if cfg.Preview {
		player := media.NewPlayer(cfg.PlayerCommand)
		if err := player.Start(rep.OutputPath); err != nil {
			fmt.Printf("Warning: preview playback failed to start: %v\n", err)
		} else {
			// Playback keeps going on its own; we don't wait for it.
			fmt.Println("Playing preview...")
		}
	}
}

// appendHistory records the build in the local log. Best-effort: a
// missing or broken store never fails a finished build.
func appendHistory(cfg *config.Config, rep *builder.Report) {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.Printf("[history] open failed: %v", err)
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = store.Append(ctx, history.Entry{
		ScriptPath:  rep.ScriptPath,
		OutputPath:  rep.OutputPath,
		Engine:      rep.Engine,
		Voice:       rep.Voice,
		RateWPM:     rep.RateWPM,
		DurationSec: rep.Duration,
		SizeBytes:   rep.SizeBytes,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("[history] append failed: %v", err)
	}
}
