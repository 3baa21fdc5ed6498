package memory

import (
	"context"
	"testing"

	"money-drop-service/internal/app"
	"money-drop-service/internal/app/apptest"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	svc := app.NewGameService(store, NewQuestionBank(sampleQuestions()), app.Options{
		Scheduler: apptest.NewManualScheduler(),
		NewID:     func() string { return "game-1" },
	})

	id, state, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := store.Get(id); !ok {
		t.Fatalf("expected session present")
	}
	if err := store.Checkpoint(context.Background(), id, state); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if _, ok := store.Snapshot(id); !ok {
		t.Fatalf("expected snapshot recorded")
	}

	if err := svc.End(context.Background(), id); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, ok := store.Get(id); ok {
		t.Fatalf("expected session removed")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
