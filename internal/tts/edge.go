package tts

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"time"
)

// EdgeProvider shells out to the edge-tts Python package (the free
// Microsoft Edge voices). Useful when the build machine is not a Mac.
type EdgeProvider struct {
	// Default voice if none provided
	DefaultVoice string
}

func NewEdgeProvider() *EdgeProvider {
	return &EdgeProvider{
		DefaultVoice: "en-GB-RyanNeural",
	}
}

func (e *EdgeProvider) Name() string { return "edge" }

func (e *EdgeProvider) Available() bool {
	_, err := exec.LookPath("python3")
	return err == nil
}

// rateOffset maps words per minute onto edge-tts's signed percentage,
// taken relative to the `say` baseline.
func rateOffset(wpm int) string {
	if wpm <= 0 {
		wpm = BaseRateWPM
	}
	pct := int(math.Round((float64(wpm)/float64(BaseRateWPM) - 1) * 100))
	return fmt.Sprintf("%+d%%", pct)
}

func (e *EdgeProvider) Synthesize(ctx context.Context, text string, outputPath string, voice string, opts Options) error {
	if voice == "" {
		voice = e.DefaultVoice
	}

	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			time.Sleep(time.Duration(i) * time.Second) // Simple backoff
		}

		// Per-attempt timeout to prevent hangs
		attemptCtx, cancel := context.WithTimeout(ctx, 60*time.Second)

		cmd := exec.CommandContext(attemptCtx, "python3", "-m", "edge_tts",
			"--text", text,
			"--write-media", outputPath,
			"--voice", voice,
			"--rate", rateOffset(opts.RateWPM),
		)

		output, err := cmd.CombinedOutput()
		cancel()

		if err == nil {
			// Verify file exists and is not empty
			info, err := os.Stat(outputPath)
			if err == nil && info.Size() > 0 {
				return nil
			}
			if err != nil {
				lastErr = fmt.Errorf("failed to stat output file: %w", err)
			} else {
				lastErr = fmt.Errorf("edge-tts generated empty file, output: %s", string(output))
			}
		} else {
			if attemptCtx.Err() == context.DeadlineExceeded {
				lastErr = fmt.Errorf("edge-tts synthesis timed out")
			} else {
				lastErr = fmt.Errorf("edge-tts cli failed: %w, output: %s", err, string(output))
			}
		}
	}

	return fmt.Errorf("synthesis failed after %d attempts: %v", maxRetries, lastErr)
}
