package media

import (
	"fmt"
	"os/exec"
)

// Player launches audio playback as a detached process. Nothing waits
// for it: the CLI is allowed to exit while audio is still playing.
type Player struct {
	Command string
}

func NewPlayer(command string) *Player {
	if command == "" {
		command = "afplay"
	}
	return &Player{Command: command}
}

// Start begins playback and returns as soon as the process is running.
func (p *Player) Start(path string) error {
	cmd := exec.Command(p.Command, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.Command, err)
	}

	// Reap in the background; long-lived callers shouldn't accumulate
	// zombies.
	go cmd.Wait()

	return nil
}

// Available reports whether the player binary is on PATH.
func (p *Player) Available() bool {
	_, err := exec.LookPath(p.Command)
	return err == nil
}
