package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/internal/application/orchestrator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// Handler streams execution progress over WebSocket
type Handler struct {
	broker *orchestrator.ProgressBroker
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(broker *orchestrator.ProgressBroker, logger *zap.Logger) *Handler {
	return &Handler{
		broker: broker,
		logger: logger,
	}
}

// HandleProgressStream streams a scenario's execution progress until
// the client disconnects. A slow client only loses notifications; it
// never back-pressures the dispatch loop.
func (h *Handler) HandleProgressStream(c *gin.Context) {
	scenarioID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("scenario_id", scenarioID),
		zap.String("client", c.ClientIP()))

	progressCh, cancel := h.broker.Subscribe(scenarioID)
	defer cancel()

	// Drain the read side so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case progress, ok := <-progressCh:
			if !ok {
				return
			}
			if err := conn.WriteJSON(progress); err != nil {
				h.logger.Warn("failed to write progress", zap.Error(err))
				return
			}
		}
	}
}
