package tts

import "context"

// BaseRateWPM is the macOS `say` default speaking rate in words per
// minute. Engines that speak a different rate unit convert from this
// baseline.
const BaseRateWPM = 175

// Options carries the per-request synthesis knobs shared by all engines.
type Options struct {
	// RateWPM is the speaking rate in words per minute. Zero means the
	// engine default.
	RateWPM int
}

// Provider defines the interface for Text-to-Speech synthesis.
type Provider interface {
	// Synthesize converts text to speech and saves it to the specified
	// output path, overwriting whatever was there. An empty voice
	// selects the engine's default voice.
	Synthesize(ctx context.Context, text string, outputPath string, voice string, opts Options) error

	// Name identifies the engine in reports and logs.
	Name() string

	// Available reports whether the engine can plausibly run on this
	// machine. It is a hint for warnings, not a guarantee.
	Available() bool
}
