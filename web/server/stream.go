package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamMessage is a JSON text frame sent on the render stream
type StreamMessage struct {
	Type    string          `json:"type"` // "start", "console", "complete" or "error"
	Width   int             `json:"width,omitempty"`
	Height  int             `json:"height,omitempty"`
	Message *ConsoleMessage `json:"message,omitempty"`
	Stats   *Stats          `json:"stats,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// rowHeaderSize is the little-endian row index prefixed to each binary frame
const rowHeaderSize = 4

// handleStream renders a scene row by row over a websocket. The client
// receives a start message, one binary frame per row (uint32 row index
// followed by width*3 RGB bytes), console messages as they are logged, and
// a final complete message with the frame statistics.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(consoleChan)
	rt, err := s.createRenderer(req, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The hijacked request context outlives the client, so cancel on read
	// errors instead
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	width, height := rt.Camera().Size()
	if err := writeStreamMessage(conn, StreamMessage{Type: "start", Width: width, Height: height}); err != nil {
		return
	}

	logger.Printf("Streaming %s at %dx%d\n", req.Scene, width, height)

	raster := renderer.NewRaster(width, height)
	var total renderer.RenderStats
	start := time.Now()
	rowBytes := width * 3
	frame := make([]byte, rowHeaderSize+rowBytes)

	for y := 0; y < height; y++ {
		rowStats, err := rt.RenderBounds(ctx, image.Rect(0, y, width, y+1), raster)
		if err != nil {
			log.Printf("Stream of %s cancelled at row %d: %v", req.Scene, y, err)
			return
		}
		total.TotalPixels += rowStats.TotalPixels
		total.PrimitiveHits += rowStats.PrimitiveHits
		total.LightHits += rowStats.LightHits
		total.Misses += rowStats.Misses

		binary.LittleEndian.PutUint32(frame, uint32(y))
		copy(frame[rowHeaderSize:], raster.Pix[y*rowBytes:(y+1)*rowBytes])
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
		if err := flushConsole(conn, consoleChan); err != nil {
			return
		}
	}

	total.Elapsed = time.Since(start)
	stats := newStats(total)
	if err := writeStreamMessage(conn, StreamMessage{Type: "complete", Stats: &stats}); err != nil {
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// flushConsole forwards queued log lines without blocking
func flushConsole(conn *websocket.Conn, consoleChan <-chan ConsoleMessage) error {
	for {
		select {
		case msg := <-consoleChan:
			if err := writeStreamMessage(conn, StreamMessage{Type: "console", Message: &msg}); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func writeStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
