package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmalicki/voiceover/internal/builder"
	"github.com/jmalicki/voiceover/internal/config"
	"github.com/jmalicki/voiceover/internal/history"
	"github.com/jmalicki/voiceover/internal/script"
	"github.com/jmalicki/voiceover/internal/tts"
)

type Handler struct {
	Config  *config.Config
	Jobs    *JobManager
	Hub     *Hub
	History *history.Store // nil when the store failed to open

	// newProvider is swappable in tests so handlers run without the
	// synthesis binaries installed.
	newProvider func(engine tts.EngineType, cfg *config.Config) (tts.Provider, error)
}

func NewHandler(cfg *config.Config, store *history.Store) *Handler {
	h := &Handler{
		Config:      cfg,
		Jobs:        NewJobManager(),
		Hub:         NewHub(),
		History:     store,
		newProvider: tts.NewProvider,
	}
	h.Jobs.OnUpdate(h.Hub.Broadcast)
	return h
}

// -- Request/Response Structs --

// NarrateRequest overrides pieces of the configured build. Every field
// is optional; an empty body builds the standard demo voiceover.
type NarrateRequest struct {
	ScriptPath string `json:"script_path"`
	Engine     string `json:"engine"`
	Voice      string `json:"voice"`
	RateWPM    int    `json:"rate_wpm"`
}

type PreviewRequest struct {
	Text    string `json:"text" binding:"required"`
	Engine  string `json:"engine"`
	Voice   string `json:"voice"`
	RateWPM int    `json:"rate_wpm"`
}

// runConfig derives a per-job record from the server config plus request
// overrides. Config carries a mutex, so fields are copied one by one
// rather than by struct copy.
func (h *Handler) runConfig(req NarrateRequest, outputPath string) *config.Config {
	cfg := &config.Config{
		ScriptPath:    h.Config.ScriptPath,
		OutputPath:    outputPath,
		Engine:        h.Config.Engine,
		Voice:         h.Config.Voice,
		RateWPM:       h.Config.RateWPM,
		OpenAIAPIKey:  h.Config.OpenAIAPIKey,
		OpenAIBaseURL: h.Config.OpenAIBaseURL,
	}
	if req.ScriptPath != "" {
		cfg.ScriptPath = req.ScriptPath
	}
	if req.Engine != "" {
		cfg.Engine = req.Engine
	}
	if req.Voice != "" {
		cfg.Voice = req.Voice
	}
	if req.RateWPM > 0 {
		cfg.RateWPM = req.RateWPM
	}
	return cfg
}

// -- Handlers --

// HandleNarrate starts an async build job and returns its ID right away.
// Progress is polled via /api/jobs or streamed via /ws/jobs.
func (h *Handler) HandleNarrate(c *gin.Context) {
	var req NarrateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	jobID := uuid.NewString()
	outDir := filepath.Dir(h.Config.OutputPath)
	outputPath := filepath.Join(outDir, fmt.Sprintf("voiceover_%s.m4a", jobID))
	runCfg := h.runConfig(req, outputPath)

	provider, err := h.newProvider(tts.EngineType(runCfg.Engine), runCfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engine"})
		return
	}

	h.Jobs.CreateJob(jobID)
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "message": "Narration build started"})

	go func() {
		h.Jobs.UpdateProgress(jobID, 10, "Loading narration script")

		b := builder.New(runCfg, provider)
		h.Jobs.UpdateProgress(jobID, 30, fmt.Sprintf("Synthesizing with %s", provider.Name()))

		rep, err := b.Build(context.Background())
		if err != nil {
			h.Jobs.FailJob(jobID, err.Error())
			return
		}

		h.appendHistory(rep)

		downloadURL := "/narration/" + filepath.Base(rep.OutputPath)
		h.Jobs.CompleteJob(jobID, downloadURL, rep.Duration, rep.SizeBytes)
	}()
}

// HandlePreview synthesizes ad-hoc text and returns the audio directly.
func (h *Handler) HandlePreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := req.Engine
	if engine == "" {
		engine = h.Config.Engine
	}
	provider, err := h.newProvider(tts.EngineType(engine), h.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engine"})
		return
	}

	tmpFile, err := os.CreateTemp("", "preview-*.m4a")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Temp file error"})
		return
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	voice := req.Voice
	if voice == "" {
		voice = h.Config.Voice
	}
	rate := req.RateWPM
	if rate <= 0 {
		rate = h.Config.RateWPM
	}

	opts := tts.Options{RateWPM: rate}
	if err := provider.Synthesize(c.Request.Context(), req.Text, tmpFile.Name(), voice, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.File(tmpFile.Name())
}

// HandleGetScript shows what the builder would speak: the filtered
// narration and the line counts.
func (h *Handler) HandleGetScript(c *gin.Context) {
	scr, err := script.Load(h.Config.ScriptPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Narration script not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	spoken, skipped := scr.Counts()
	c.JSON(http.StatusOK, gin.H{
		"path":          scr.Path,
		"narration":     scr.Narration(),
		"lines_spoken":  spoken,
		"lines_skipped": skipped,
	})
}

func (h *Handler) HandleGetTasks(c *gin.Context) {
	jobs := h.Jobs.GetAllJobs()
	c.JSON(http.StatusOK, gin.H{"tasks": jobs})
}

func (h *Handler) HandleGetJob(c *gin.Context) {
	job, ok := h.Jobs.GetJob(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) HandleHistory(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History store unavailable"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	builds, err := h.History.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"builds": builds})
}

func (h *Handler) HandleGetConfig(c *gin.Context) {
	// Return config for frontend display. This is a local tool; the
	// secrets stay on the machine that owns them.
	c.JSON(http.StatusOK, h.Config)
}

func (h *Handler) HandleSaveConfig(c *gin.Context) {
	var newCfg config.Config
	if err := c.ShouldBindJSON(&newCfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Copy the editable fields, leaving Port alone so the running
	// listener keeps its setting.
	h.Config.ScriptPath = newCfg.ScriptPath
	h.Config.OutputPath = newCfg.OutputPath
	h.Config.Engine = newCfg.Engine
	h.Config.Voice = newCfg.Voice
	h.Config.RateWPM = newCfg.RateWPM
	h.Config.PlayerCommand = newCfg.PlayerCommand
	h.Config.Preview = newCfg.Preview
	h.Config.HistoryPath = newCfg.HistoryPath
	h.Config.OpenAIAPIKey = newCfg.OpenAIAPIKey
	h.Config.OpenAIBaseURL = newCfg.OpenAIBaseURL

	if err := h.Config.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save config: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved"})
}

// HandleJobsWS streams job snapshots over a websocket.
func (h *Handler) HandleJobsWS(c *gin.Context) {
	if err := h.Hub.Subscribe(c.Writer, c.Request); err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
}

func (h *Handler) appendHistory(rep *builder.Report) {
	if h.History == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.History.Append(ctx, history.Entry{
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
