package promptoverride

import (
	"context"
	"testing"

	"codeappraise/internal/prompt"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "u1", prompt.TypeSecurity); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	if err := s.Save(ctx, "u1", prompt.TypeSecurity, "custom security prompt"); err != nil {
		t.Fatal(err)
	}
	text, ok, err := s.Get(ctx, "u1", prompt.TypeSecurity)
	if err != nil || !ok || text != "custom security prompt" {
		t.Fatalf("get after save: %q ok=%v err=%v", text, ok, err)
	}

	// Other users and other types stay untouched.
	if _, ok, _ := s.Get(ctx, "u2", prompt.TypeSecurity); ok {
		t.Fatal("override leaked to another user")
	}
	if _, ok, _ := s.Get(ctx, "u1", prompt.TypeBugs); ok {
		t.Fatal("override leaked to another type")
	}

	if err := s.Delete(ctx, "u1", prompt.TypeSecurity); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "u1", prompt.TypeSecurity); ok {
		t.Fatal("override survived delete")
	}
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, "u1", prompt.TypeValuation, "v1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "u1", prompt.TypeValuation, "v2"); err != nil {
		t.Fatal(err)
	}
	text, _, _ := s.Get(ctx, "u1", prompt.TypeValuation)
	if text != "v2" {
		t.Fatalf("got %q, want v2", text)
	}
}
