package main

import (
	"fmt"
	"log"
	"os/exec"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jmalicki/voiceover/internal/api"
	"github.com/jmalicki/voiceover/internal/config"
	"github.com/jmalicki/voiceover/internal/history"
)

func main() {
	godotenv.Load()

	// 1. Environment Check
	checkDependency("say")
	checkDependency("ffprobe")
	checkDependency("afplay")

	// 2. Load Config
	cfg := config.LoadConfig()

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.Printf("WARNING: history store unavailable: %v", err)
		store = nil
	}

	// 3. Setup Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/jobs"},
	}))

	handler := api.NewHandler(cfg, store)

	// Static files so finished voiceovers can be fetched and played
	r.Static("/narration", "./"+filepath.Dir(cfg.OutputPath))

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/narrate", handler.HandleNarrate)
		apiGroup.POST("/preview", handler.HandlePreview)
		apiGroup.GET("/script", handler.HandleGetScript)
		apiGroup.GET("/jobs", handler.HandleGetTasks)
		apiGroup.GET("/jobs/:id", handler.HandleGetJob)
		apiGroup.GET("/history", handler.HandleHistory)
		apiGroup.GET("/config", handler.HandleGetConfig)
		apiGroup.POST("/config", handler.HandleSaveConfig)
	}
	r.GET("/ws/jobs", handler.HandleJobsWS)

	// 4. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func checkDependency(cmdName string) {
	_, err := exec.LookPath(cmdName)
	if err != nil {
		log.Printf("WARNING: %s is not installed or not in PATH. Usage may fail.", cmdName)
	} else {
		fmt.Printf("Checked %s: OK\n", cmdName)
	}
}
