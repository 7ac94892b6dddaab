package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmalicki/voiceover/internal/config"
)

func TestSpeechSpeed(t *testing.T) {
	tests := []struct {
		wpm  int
		want float64
	}{
		{0, 1.0},
		{175, 1.0},
		{350, 2.0},
		{10, 0.25},
		{2000, 4.0},
	}

	for _, tt := range tests {
		if got := speechSpeed(tt.wpm); got != tt.want {
			t.Errorf("speechSpeed(%d) = %v, want %v", tt.wpm, got, tt.want)
		}
	}
}

func TestOpenAISynthesize(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q, want /audio/speech", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("fake-mp3-bytes"))
	}))
	defer ts.Close()

	cfg := &config.Config{OpenAIAPIKey: "sk-test", OpenAIBaseURL: ts.URL}
	p := NewOpenAIProvider(cfg)

	out := filepath.Join(t.TempDir(), "speech.mp3")
	err := p.Synthesize(context.Background(), "Hello there.", out, "", Options{RateWPM: 350})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["voice"] != "onyx" {
		t.Errorf("voice = %v, want default onyx", gotBody["voice"])
	}
	if gotBody["input"] != "Hello there." {
		t.Errorf("input = %v", gotBody["input"])
	}
	if gotBody["speed"] != 2.0 {
		t.Errorf("speed = %v, want 2", gotBody["speed"])
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake-mp3-bytes" {
		t.Errorf("file content = %q", data)
	}
}

func TestOpenAISynthesizeAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad voice"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	cfg := &config.Config{OpenAIAPIKey: "sk-test", OpenAIBaseURL: ts.URL}
	p := NewOpenAIProvider(cfg)

	err := p.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "x.mp3"), "verse", Options{})
	if err == nil {
		t.Fatal("expected API error")
	}
}

func TestOpenAISynthesizeNoKey(t *testing.T) {
	p := NewOpenAIProvider(&config.Config{})

	if p.Available() {
		t.Error("Available() should be false without a key")
	}
	if err := p.Synthesize(context.Background(), "text", "out.mp3", "", Options{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
