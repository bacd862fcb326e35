package status

import (
	"testing"
)

func TestSubscribeAndEmit(t *testing.T) {
	b := NewBroker()

	var got []Update
	unsubscribe := b.Subscribe("p1", func(u Update) {
		got = append(got, u)
	})
	defer unsubscribe()

	b.Emit("p1", "analyzing", "security")
	b.Emit("p2", "analyzing", "security") // different project, not delivered

	if len(got) != 1 {
		t.Fatalf("updates = %d, want 1", len(got))
	}
	if got[0].ProjectID != "p1" || got[0].Status != "analyzing" || got[0].Stage != "security" {
		t.Fatalf("update = %+v", got[0])
	}
	if got[0].Timestamp == 0 {
		t.Fatal("timestamp not set")
	}
}

func TestUnsubscribeRemovesEmptySet(t *testing.T) {
	b := NewBroker()
	unsubscribe := b.Subscribe("p1", func(Update) {})
	if !b.HasListeners("p1") {
		t.Fatal("expected listener")
	}
	unsubscribe()
	if b.HasListeners("p1") {
		t.Fatal("listener still registered")
	}
	if b.ListenerCount("") != 0 {
		t.Fatalf("total listeners = %d, want 0", b.ListenerCount(""))
	}
	// A second call must be harmless.
	unsubscribe()
}

func TestEmitWithoutListeners(t *testing.T) {
	b := NewBroker()
	b.Emit("ghost", "analyzing", "starting") // must not panic
}

func TestPanickingListenerIsolated(t *testing.T) {
	b := NewBroker()

	defer b.Subscribe("p1", func(Update) {
		panic("bad listener")
	})()
	delivered := 0
	defer b.Subscribe("p1", func(Update) {
		delivered++
	})()

	b.Emit("p1", "analyzing", "scoring")
	b.Emit("p1", "completed", "completed")

	if delivered != 2 {
		t.Fatalf("healthy listener deliveries = %d, want 2", delivered)
	}
}

func TestMultipleListenersPerProject(t *testing.T) {
	b := NewBroker()
	counts := [3]int{}
	for i := 0; i < 3; i++ {
		i := i
		defer b.Subscribe("p1", func(Update) { counts[i]++ })()
	}
	if b.ListenerCount("p1") != 3 {
		t.Fatalf("listeners = %d, want 3", b.ListenerCount("p1"))
	}
	b.Emit("p1", "analyzing", "preparing")
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("listener %d deliveries = %d, want 1", i, c)
		}
	}
}
