package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmalicki/voiceover/internal/config"
	"github.com/jmalicki/voiceover/internal/media"
	"github.com/jmalicki/voiceover/internal/script"
	"github.com/jmalicki/voiceover/internal/tts"
)

// Report is what a finished build knows about its artifact.
type Report struct {
	ScriptPath   string
	OutputPath   string
	Engine       string
	Voice        string
	RateWPM      int
	LinesSpoken  int
	LinesSkipped int

	// Duration is best-effort. HasDuration is false when ffprobe was
	// missing or failed; the report then simply omits the line.
	Duration    float64
	HasDuration bool

	SizeBytes int64
	Elapsed   time.Duration
}

// Builder runs the narration pipeline: load the script, strip markers,
// synthesize, measure. Probe and Stat are swappable so the pipeline can
// be exercised without ffprobe on the machine.
type Builder struct {
	Config   *config.Config
	Provider tts.Provider

	Probe func(path string) (float64, error)
	Stat  func(path string) (os.FileInfo, error)
}

func New(cfg *config.Config, provider tts.Provider) *Builder {
	return &Builder{
		Config:   cfg,
		Provider: provider,
		Probe:    media.ProbeDuration,
		Stat:     os.Stat,
	}
}

// Build produces the voiceover artifact. It fails for exactly two
// reasons: the narration script is missing, or synthesis failed. A
// missing script leaves the output artifact untouched. Everything the
// build measures afterwards degrades instead of failing.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()

	scr, err := script.Load(b.Config.ScriptPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("narration script not found at %s", b.Config.ScriptPath)
		}
		return nil, err
	}

	spoken, skipped := scr.Counts()
	text := scr.Narration()

	if dir := filepath.Dir(b.Config.OutputPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}

	opts := tts.Options{RateWPM: b.Config.RateWPM}
	if err := b.Provider.Synthesize(ctx, text, b.Config.OutputPath, b.Config.Voice, opts); err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	rep := &Report{
		ScriptPath:   scr.Path,
		OutputPath:   b.Config.OutputPath,
		Engine:       b.Provider.Name(),
		Voice:        b.Config.Voice,
		RateWPM:      b.Config.RateWPM,
		LinesSpoken:  spoken,
		LinesSkipped: skipped,
	}

	if dur, err := b.Probe(b.Config.OutputPath); err == nil {
		rep.Duration = dur
		rep.HasDuration = true
	}

	if info, err := b.Stat(b.Config.OutputPath); err == nil {
		rep.SizeBytes = info.Size()
	}

	rep.Elapsed = time.Since(start)
	return rep, nil
}

// Print writes the fixed status block the CLI shows after a successful
// build.
func (r *Report) Print() {
	fmt.Printf("Narration: %d lines spoken, %d marker lines skipped\n", r.LinesSpoken, r.LinesSkipped)
	fmt.Printf("Voiceover created: %s\n", r.OutputPath)
	if r.HasDuration {
		fmt.Printf("  Duration: %.1f seconds\n", r.Duration)
	}
	fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(r.SizeBytes)))
}
