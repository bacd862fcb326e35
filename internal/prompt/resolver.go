package prompt

import (
	"context"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// OverrideStore persists per-user prompt overrides.
type OverrideStore interface {
	Get(ctx context.Context, userID string, t Type) (string, bool, error)
	Save(ctx context.Context, userID string, t Type, text string) error
	Delete(ctx context.Context, userID string, t Type) error
}

// Resolver looks up the prompt text to use for a user and slot. An
// absent override is the common case, not an error; store failures
// degrade to the default text, so Resolve never fails.
type Resolver struct {
	store OverrideStore
	cache *lru.Cache[string, string]
}

// NewResolver builds a resolver over store. A nil store serves only
// defaults, which is the offline/CLI configuration.
func NewResolver(store OverrideStore) *Resolver {
	cache, err := lru.New[string, string](256)
	if err != nil {
		cache = nil
	}
	return &Resolver{store: store, cache: cache}
}

func cacheKey(userID string, t Type) string {
	return userID + "\x00" + string(t)
}

// Resolve returns the user's override for the slot, or the default.
func (r *Resolver) Resolve(ctx context.Context, userID string, t Type) string {
	fallback := Default(t)
	if r == nil || r.store == nil || strings.TrimSpace(userID) == "" {
		return fallback
	}

	key := cacheKey(userID, t)
	if r.cache != nil {
		if text, ok := r.cache.Get(key); ok {
			return text
		}
	}

	text, ok, err := r.store.Get(ctx, userID, t)
	if err != nil {
		log.Printf("prompt resolver: override lookup failed for %s/%s, using default: %v", userID, t, err)
		return fallback
	}
	if !ok || strings.TrimSpace(text) == "" {
		text = fallback
	}
	if r.cache != nil {
		r.cache.Add(key, text)
	}
	return text
}

// ResolveAll returns the effective prompt for every slot.
func (r *Resolver) ResolveAll(ctx context.Context, userID string) map[Type]string {
	out := make(map[Type]string, len(Types))
	for _, t := range Types {
		out[t] = r.Resolve(ctx, userID, t)
	}
	return out
}

// Save persists an override and invalidates the cached entry.
func (r *Resolver) Save(ctx context.Context, userID string, t Type, text string) error {
	if err := r.store.Save(ctx, userID, t, text); err != nil {
		return err
	}
	if r.cache != nil {
		r.cache.Remove(cacheKey(userID, t))
	}
	return nil
}

// Reset deletes an override so the slot falls back to the default.
func (r *Resolver) Reset(ctx context.Context, userID string, t Type) error {
	if err := r.store.Delete(ctx, userID, t); err != nil {
		return err
	}
	if r.cache != nil {
		r.cache.Remove(cacheKey(userID, t))
	}
	return nil
}
