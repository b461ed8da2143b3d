package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/service"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 50 * time.Second
	liveMaxMessage = maxDocumentBytes
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The REST surface already allows any origin; the live channel matches it
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveScoreMessage is the frame sent back for every document received on the
// live channel.
type liveScoreMessage struct {
	CurationID string              `json:"curation_id"`
	Report     service.ScoreReport `json:"report"`
	Error      string              `json:"error,omitempty"`
	ScoredAt   time.Time           `json:"scored_at"`
}

// handleLiveScore upgrades the connection and rescores every evidence
// document the editor sends, pushing the updated report back. The editor gets
// score feedback per keystroke batch without a REST round trip per change.
func (s *Server) handleLiveScore(c *gin.Context) {
	id, ok := s.curationID(c)
	if !ok {
		return
	}

	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("Failed to upgrade live scoring connection")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(liveMaxMessage)
	conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	s.log.WithFields(logrus.Fields{
		"curation_id": id,
		"remote":      conn.RemoteAddr().String(),
	}).Info("Live scoring session opened")

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	// The read loop only scores; every frame written to the connection goes
	// through the select below, the connection's single writer.
	reports := make(chan liveScoreMessage, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgType, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			msg := liveScoreMessage{CurationID: id.String(), ScoredAt: time.Now().UTC()}
			result, err := s.scorer.ScoreRaw(raw)
			if err != nil {
				msg.Error = "malformed evidence document"
			} else {
				msg.Report = service.Report(result)
			}

			select {
			case reports <- msg:
			case <-c.Request.Context().Done():
				return
			}
		}
	}()

	for {
		select {
		case msg := <-reports:
			conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			// Flush reports scored before the read side closed.
			for {
				select {
				case msg := <-reports:
					conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
					if err := conn.WriteJSON(msg); err != nil {
						return
					}
				default:
					s.log.WithField("curation_id", id).Info("Live scoring session closed")
					return
				}
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}
