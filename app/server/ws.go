package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// handleWS pushes a state snapshot on connect and again after every store
// change, so a UI can render without polling.
func (s *Service) handleWS(conn *websocket.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// Arm the watch channels before snapshotting, so a change landing
		// between the snapshot and the select shows up as an already-closed
		// channel instead of getting lost.
		transcriptWatch := s.transcriptSvc.Watch()
		recordWatch := s.recordSvc.Watch()

		if err := s.writeState(conn); err != nil {
			slog.Debug("Dropping websocket client", "error", err)
			return
		}

		waiting := true
		for waiting {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-transcriptWatch:
				waiting = false
			case <-recordWatch:
				waiting = false
			}
		}
	}
}

func (s *Service) writeState(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	return conn.WriteJSON(s.snapshot())
}
