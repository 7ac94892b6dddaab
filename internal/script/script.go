package script

import (
	"fmt"
	"os"
	"strings"
)

// markerPrefixes mark the non-spoken lines a demo narration script may
// contain between narration paragraphs: bracketed stage cues, "=" section
// banners, voice/production notes, and the running-time estimate.
var markerPrefixes = []string{"[", "=", "Professional", "Total Duration"}

// Script is a loaded narration script with its raw lines in file order.
type Script struct {
	Path  string
	Lines []string
}

// Load reads a narration script from disk. A missing file keeps the
// underlying fs.ErrNotExist in the chain so callers can tell "no script"
// apart from other I/O failures.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading narration script: %w", err)
	}

	raw := strings.ReplaceAll(string(data), "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")

	s := &Script{Path: path}
	if raw != "" {
		s.Lines = strings.Split(raw, "\n")
	}
	return s, nil
}

// IsMarker reports whether a line is stage direction rather than
// narration: blank, or starting with one of the marker prefixes.
func IsMarker(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	for _, prefix := range markerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// FilterNarration keeps the spoken lines, in their original order.
// Nothing is merged or deduplicated; repeated narration stays repeated.
func FilterNarration(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if !IsMarker(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// Narration returns the text handed to the synthesis engine: spoken
// lines joined with newlines. A script of only markers yields "".
func (s *Script) Narration() string {
	return strings.Join(FilterNarration(s.Lines), "\n")
}

// Counts returns how many lines will be spoken and how many were
// markers, for the build report.
func (s *Script) Counts() (spoken, skipped int) {
	for _, line := range s.Lines {
		if IsMarker(line) {
			skipped++
		} else {
			spoken++
		}
	}
	return spoken, skipped
}
