package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"money-drop-service/internal/app"
	"money-drop-service/internal/app/apptest"
	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
	"money-drop-service/internal/infra/memory"
	"money-drop-service/internal/view"
)

func newTestServer(t *testing.T) (*httptest.Server, *apptest.ManualScheduler) {
	t.Helper()
	sched := apptest.NewManualScheduler()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewGameService(memory.NewSessionStore(), memory.NewQuestionBank(sampleQuestions()), app.Options{
		Scheduler: sched,
		Logger:    logger,
		NewID:     func() string { return "game-1" },
		Seed:      func() int64 { return 7 },
	})
	server := httptest.NewServer(NewRouter(service, nil, logger))
	t.Cleanup(server.Close)
	return server, sched
}

func TestWebSocketRoundFlow(t *testing.T) {
	server, sched := newTestServer(t)

	resp, err := http.Post(server.URL+"/games", "application/json", nil)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.ID != "game-1" {
		t.Fatalf("unexpected create response %d %+v", resp.StatusCode, created)
	}

	u := "ws" + server.URL[len("http"):] + "/games/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readBoard(conn, t, game.PhaseNameEntry)

	send(conn, t, "names", map[string]string{"player1": "Aye", "player2": "Thu"})
	readBoard(conn, t, game.PhaseIntro)

	sched.Advance(1500 * time.Millisecond)
	board := readBoard(conn, t, game.PhaseCategorySelect)
	if len(board.Categories) != 2 {
		t.Fatalf("expected 2 offered categories, got %v", board.Categories)
	}

	send(conn, t, "choose", map[string]string{"category": board.Categories[0]})
	board = readBoard(conn, t, game.PhasePlaying)
	if board.Countdown != 60 || len(board.Slots) != 4 {
		t.Fatalf("unexpected playing board %+v", board)
	}

	send(conn, t, "bet", map[string]string{"label": "a", "direction": "raise"})
	board = readBoard(conn, t, game.PhasePlaying)
	if board.Slots[0].Bet != 500_000 {
		t.Fatalf("expected 500000 on A, got %d", board.Slots[0].Bet)
	}

	// Early drop is refused on a full board and reported to the player.
	send(conn, t, "drop", nil)
	if msg := readError(conn, t); msg != domain.ErrDropLocked.Error() {
		t.Fatalf("unexpected error message %q", msg)
	}

	send(conn, t, "dance", nil)
	if msg := readError(conn, t); msg != errUnsupportedMessage.Error() {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestGetUnknownGame(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/games/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/games/missing", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func send(conn *websocket.Conn, t *testing.T, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

// readError skips state pushes until an error message arrives.
func readError(conn *websocket.Conn, t *testing.T) string {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t)
		if typ != "error" {
			continue
		}
		var e errorPayload
		if err := json.Unmarshal(payload, &e); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		return e.Message
	}
	t.Fatalf("no error message received")
	return ""
}

// readBoard skips messages until a board in the wanted phase arrives.
func readBoard(conn *websocket.Conn, t *testing.T, phase game.Phase) view.Board {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t)
		if typ != "state" {
			t.Fatalf("expected state message, got %s: %s", typ, payload)
		}
		var b view.Board
		if err := json.Unmarshal(payload, &b); err != nil {
			t.Fatalf("decode board: %v", err)
		}
		if b.Phase == phase {
			return b
		}
	}
	t.Fatalf("never reached phase %s", phase)
	return view.Board{}
}

func sampleQuestions() []domain.Question {
	opts := map[domain.Label]string{"A": "one", "B": "two", "C": "three", "D": "four"}
	return []domain.Question{
		{ID: "h1", Text: "History question", Options: opts, CorrectAnswer: domain.LabelB, Difficulty: 1, Category: "History"},
		{ID: "s1", Text: "Science question", Options: opts, CorrectAnswer: domain.LabelC, Difficulty: 1, Category: "Science"},
		{ID: "g1", Text: "Geography question", Options: opts, CorrectAnswer: domain.LabelA, Difficulty: 1, Category: "Geography"},
	}
}
