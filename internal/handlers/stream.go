package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GregMSThompson/decision-backend/internal/dto"
	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type evaluation struct {
	item *models.HistoryItem
	err  error
}

// Stream runs one evaluation over a websocket. The client sends a single
// DecisionInput; the server pushes loading steps until the result is ready.
func (h *decisionHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var input models.DecisionInput
	if err := conn.ReadJSON(&input); err != nil {
		h.sendError(conn, errs.NewValidationError("invalid request body"))
		return
	}

	// A read error means the client went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	done := make(chan evaluation, 1)
	uid := middleware.UID(ctx)
	go func() {
		item, err := h.DecisionSvc.Evaluate(ctx, uid, input)
		done <- evaluation{item: item, err: err}
	}()

	steps := h.DecisionSvc.Steps()
	step := 0
	if err := send(conn, dto.StreamTypeStep, steps[step]); err != nil {
		return
	}

	ticker := time.NewTicker(h.stepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			step = models.NextStep(step)
			if err := send(conn, dto.StreamTypeStep, steps[step]); err != nil {
				return
			}
		case res := <-done:
			if res.err != nil {
				h.sendError(conn, res.err)
			} else {
				_ = send(conn, dto.StreamTypeResult, res.item)
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case <-ctx.Done():
			log.Info("stream client disconnected")
			return
		}
	}
}

func send(conn *websocket.Conn, msgType string, data any) error {
	return conn.WriteJSON(dto.StreamMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *decisionHandlers) sendError(conn *websocket.Conn, err error) {
	st := errs.ToStatus(err)
	_ = send(conn, dto.StreamTypeError, dto.StreamError{Code: st.Code, Message: st.Message})
}
