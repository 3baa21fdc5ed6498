package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"money-drop-service/internal/app"
	"money-drop-service/internal/domain"
	"money-drop-service/internal/view"
)

type WSHandler struct {
	service  *app.GameService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type namesPayload struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type choosePayload struct {
	Category string `json:"category"`
}

type betPayload struct {
	Label     string `json:"label"`
	Direction string `json:"direction"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errUnsupportedMessage = errors.New("unsupported message type")

// ServeWS upgrades the request and wires one client into a game. Every state
// change is pushed as a board; intents come back as typed messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if _, err := h.service.State(r.Context(), gameID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "game_id", gameID, "error", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	// Runs after cancel so this client no longer counts as watching.
	defer h.service.Leave(context.Background(), gameID)
	defer cancel()

	rules := h.service.Rules()
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches the connection for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write error", "game_id", gameID, "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view.Build(update, rules)}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		err := h.handle(r.Context(), gameID, inbound)
		if msg, visible := userMessage(err); visible {
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, gameID string, inbound inboundMessage) error {
	var err error
	switch inbound.Type {
	case "names":
		var p namesPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errInvalidPayload(inbound.Type)
		}
		_, err = h.service.SubmitNames(ctx, gameID, p.Player1, p.Player2)
	case "choose":
		var p choosePayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errInvalidPayload(inbound.Type)
		}
		_, err = h.service.ChooseCategory(ctx, gameID, p.Category)
	case "bet":
		var p betPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return errInvalidPayload(inbound.Type)
		}
		label, ok := domain.ParseLabel(p.Label)
		if !ok {
			return domain.ErrLabelNotVisible
		}
		switch p.Direction {
		case "raise":
			_, err = h.service.RaiseBet(ctx, gameID, label)
		case "lower":
			_, err = h.service.LowerBet(ctx, gameID, label)
		default:
			return domain.ErrInvalidBetDelta
		}
	case "drop":
		_, err = h.service.Drop(ctx, gameID)
	case "continue":
		_, err = h.service.Continue(ctx, gameID)
	case "restart":
		_, err = h.service.Restart(ctx, gameID)
	case "retry":
		_, err = h.service.RetryContent(ctx, gameID)
	default:
		return errUnsupportedMessage
	}
	if err != nil && !errors.Is(err, domain.ErrBetExceedsBankroll) {
		h.logger.Debug("intent rejected", "game_id", gameID, "type", inbound.Type, "error", err)
	}
	return err
}

// userMessage decides which rejections reach the player. Over-betting is ignored
// and the empty-slot warning already travels inside the board.
func userMessage(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, domain.ErrBetExceedsBankroll), errors.Is(err, domain.ErrEmptySlotRequired):
		return "", false
	}
	return err.Error(), true
}

func errInvalidPayload(msgType string) error {
	return errors.New("invalid " + msgType + " payload")
}
