package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// sayTimeout bounds one synthesis run. A multi-minute demo narration
// renders much faster than real time, so this is generous.
const sayTimeout = 2 * time.Minute

// SystemProvider drives the macOS `say` command. It is the default
// engine: no credentials, no network, and it takes the speaking rate in
// wpm directly.
type SystemProvider struct {
	DefaultVoice string
}

func NewSystemProvider() *SystemProvider {
	return &SystemProvider{
		DefaultVoice: "Daniel",
	}
}

func (s *SystemProvider) Name() string { return "system" }

func (s *SystemProvider) Available() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	_, err := exec.LookPath("say")
	return err == nil
}

// sayTarget decides what `say` writes. It handles AIFF and CoreAudio
// containers (.m4a) natively; other extensions go through an AIFF
// intermediate that ffmpeg transcodes.
func sayTarget(outputPath string) (target string, needsConvert bool) {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".aiff", ".m4a":
		return outputPath, false
	default:
		return outputPath + ".aiff", true
	}
}

func (s *SystemProvider) Synthesize(ctx context.Context, text string, outputPath string, voice string, opts Options) error {
	if voice == "" {
		voice = s.DefaultVoice
	}

	rate := opts.RateWPM
	if rate <= 0 {
		rate = BaseRateWPM
	}

	target, needsConvert := sayTarget(outputPath)

	ctx, cancel := context.WithTimeout(ctx, sayTimeout)
	defer cancel()

	args := []string{"-v", voice, "-r", strconv.Itoa(rate), "-o", target, text}
	cmd := exec.CommandContext(ctx, "say", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("system tts timed out")
		}
		return fmt.Errorf("system tts failed: %w, output: %s", err, string(output))
	}

	if needsConvert {
		if err := convertAudio(target, outputPath); err != nil {
			return err
		}
		os.Remove(target)
	}

	// Verify file
	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("system tts generated empty file")
	}
	return nil
}

// convertAudio transcodes the AIFF intermediate into the requested
// container. MP3 targets get lame VBR; everything else uses whatever
// encoder ffmpeg picks for the extension.
func convertAudio(src, dst string) error {
	kwargs := ffmpeg.KwArgs{}
	if strings.ToLower(filepath.Ext(dst)) == ".mp3" {
		kwargs = ffmpeg.KwArgs{"acodec": "libmp3lame", "qscale:a": 2}
	}

	if err := ffmpeg.Input(src).Output(dst, kwargs).OverWriteOutput().Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	return nil
}
