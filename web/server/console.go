package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Console message levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage is one renderer log line shown in the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// WebLogger is the core.Logger of a single web render. Lines go to the
// server log, tagged with the render ID, and to the render's console stream.
type WebLogger struct {
	renderID string
	console  chan<- ConsoleMessage // nil for renders without a stream
}

// NewWebLogger creates the logger of render renderID
func NewWebLogger(renderID string, console chan<- ConsoleMessage) core.Logger {
	return &WebLogger{renderID: renderID, console: console}
}

func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimRight(message, "\n"))

	if wl.console == nil {
		return
	}

	// A slow client loses console lines rather than stalling the render
	select {
	case wl.console <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: messageLevel(message)}:
	default:
	}
}

// messageLevel classifies renderer output for display
func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "failed") || strings.HasPrefix(lower, "error"):
		return LevelError
	case strings.Contains(lower, "cancelled") || strings.HasPrefix(lower, "warning"):
		return LevelWarning
	default:
		return LevelInfo
	}
}
