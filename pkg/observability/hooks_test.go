package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopInteractionHooks{}
	i.OnGestureStart("draggingSelection", []string{"a", "b"})
	i.OnGestureEnd("draggingSelection", []string{"a", "b"}, time.Second)
	i.OnGestureAbort("resizing", "a")

	h := NoopHistoryHooks{}
	h.OnCommit(3)
	h.OnUndo(2, 1)
	h.OnRedo(3, 0)

	s := NoopStoreHooks{}
	s.OnRead(ctx, "file", "dashboard-canvas-resolution", true)
	s.OnWrite(ctx, "redis", "sales", 1024)
	s.OnError(ctx, "mongo", "put", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Interaction() should return NoopInteractionHooks by default")
	}
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("History() should return NoopHistoryHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customInteraction := &testInteractionHooks{}
	SetInteractionHooks(customInteraction)
	if Interaction() != customInteraction {
		t.Error("SetInteractionHooks should set custom hooks")
	}

	customHistory := &testHistoryHooks{}
	SetHistoryHooks(customHistory)
	if History() != customHistory {
		t.Error("SetHistoryHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("Reset() should restore NoopHistoryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testHistoryHooks{}
	SetHistoryHooks(custom)
	SetHistoryHooks(nil)

	if History() != custom {
		t.Error("SetHistoryHooks(nil) should be ignored")
	}

	Reset()
}

type testInteractionHooks struct{ NoopInteractionHooks }
type testHistoryHooks struct{ NoopHistoryHooks }
type testStoreHooks struct{ NoopStoreHooks }
