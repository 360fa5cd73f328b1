package handler

import (
	"net/http"
	"time"

	"kikostats/internal/model"
	"kikostats/pkg/logger"
	"kikostats/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins, production should use stricter checks
	},
}

const streamWriteTimeout = 5 * time.Second

// StreamHandler pushes engine events to websocket subscribers. Each
// connection gets its own observer; a subscriber that cannot keep up drops
// events rather than blocking the engine.
type StreamHandler struct {
	engine *monitor.Engine
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(engine *monitor.Engine) *StreamHandler {
	return &StreamHandler{engine: engine}
}

// streamEvent is the wire envelope for pushed events
type streamEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// streamObserver buffers engine events for one connection
type streamObserver struct {
	events chan streamEvent
}

func newStreamObserver() *streamObserver {
	return &streamObserver{events: make(chan streamEvent, 64)}
}

func (o *streamObserver) OnSample(sample model.ResourceSample) {
	o.push(streamEvent{Type: "sample", Data: sample})
}

func (o *streamObserver) OnUnitComplete(metrics model.UnitMetrics) {
	o.push(streamEvent{Type: "unit_complete", Data: metrics})
}

func (o *streamObserver) OnRunComplete(summary model.RunSummary) {
	o.push(streamEvent{Type: "run_complete", Data: summary})
}

// push never blocks; slow subscribers lose events
func (o *streamObserver) push(ev streamEvent) {
	select {
	case o.events <- ev:
	default:
	}
}

// Stream upgrades the connection and pushes one event per engine tick plus
// every unit and run completion
// @Summary Stream monitoring events over websocket
// @Router /v1/monitor/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to upgrade to websocket: %v", err)
		return
	}
	defer ws.Close()

	observer := newStreamObserver()
	subID := h.engine.Subscribe(observer)
	defer h.engine.Unsubscribe(subID)

	// Send the current snapshot immediately so clients render before the
	// next tick arrives
	current := h.engine.Current()
	_ = ws.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := ws.WriteJSON(streamEvent{Type: "sample", Data: current}); err != nil {
		return
	}

	// Reader goroutine surfaces client disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev := <-observer.events:
			_ = ws.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := ws.WriteJSON(ev); err != nil {
				logger.DebugCtx(c.Request.Context(), "websocket subscriber dropped: %v", err)
				return
			}
		}
	}
}
