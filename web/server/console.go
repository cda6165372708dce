package server

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var _ renderer.PassLogger = (*WebLogger)(nil)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`           // "info", "warning", "error"
	Pass      int       `json:"pass,omitempty"`  // Progressive pass the message was logged in
	Scale     int       `json:"scale,omitempty"` // Downscale factor of that pass
}

// WebLogger implements renderer.PassLogger by sending messages to a console
// channel, tagged with the pass being rendered
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage

	mu    sync.Mutex
	pass  int
	scale int
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// BeginPass tags subsequent messages with a progressive pass
func (wl *WebLogger) BeginPass(pass, scale int) {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	wl.pass, wl.scale = pass, scale
}

// prefix identifies the render and, once passes have started, the pass
func (wl *WebLogger) prefix() (string, int, int) {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	if wl.pass == 0 {
		return wl.renderID, 0, 0
	}
	return fmt.Sprintf("%s pass %d 1/%d", wl.renderID, wl.pass, wl.scale), wl.pass, wl.scale
}

// messageLevel derives the console level from the message prefix
func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.HasPrefix(lower, "error"):
		return "error"
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	prefix, pass, scale := wl.prefix()

	// Also write to the server log
	log.Printf("[%s] %s", prefix, strings.TrimRight(message, "\n"))

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     messageLevel(message),
			Pass:      pass,
			Scale:     scale,
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}
