package agui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// StreamConfig controls SSE stream behavior.
type StreamConfig struct {
	// KeepAlive is the interval between SSE comment pings that hold idle
	// connections open through proxies.
	KeepAlive time.Duration
	// MaxDuration bounds a single stream; the client reconnects.
	MaxDuration time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() StreamConfig {
	return StreamConfig{
		KeepAlive:   15 * time.Second,
		MaxDuration: 30 * time.Minute,
	}
}

// ServeStream writes the bus's events to w as SSE until the client goes
// away or the stream hits MaxDuration.
func ServeStream(w http.ResponseWriter, r *http.Request, bus *Bus, cfg StreamConfig) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events, cancel := bus.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(cfg.KeepAlive)
	defer keepAlive.Stop()
	deadline := time.NewTimer(cfg.MaxDuration)
	defer deadline.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-deadline.C:
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			writeSSE(w, flusher, event)
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	flusher.Flush()
}
