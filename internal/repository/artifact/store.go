package artifact

import (
	"context"
	"errors"
)

// Store persists raw model responses and other per-project artifacts.
// Keys are project-scoped paths such as "responses/security-1718000000.json".
type Store interface {
	Put(ctx context.Context, projectID, path string, content []byte) error
	Get(ctx context.Context, projectID, path string) ([]byte, error)
	List(ctx context.Context, projectID string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")
