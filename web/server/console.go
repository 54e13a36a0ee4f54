package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// ConsoleMessage represents a renderer log line forwarded to a client
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WebLogger implements core.Logger by queueing messages for a client
// connection. Messages are dropped when the queue is full, and always
// when the channel is nil.
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger feeding consoleChan
func NewWebLogger(consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{consoleChan: consoleChan}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now()}:
	default:
	}
}
