package llmclient

import (
	"context"
	"log"
	"time"
)

// WithLogging logs one line per call with prompt size, duration, and
// truncation state.
func WithLogging() Middleware {
	return func(next CompletionClient) CompletionClient {
		return &logging{next: next}
	}
}

type logging struct {
	next CompletionClient
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Complete(ctx context.Context, req Request) (Completion, error) {
	start := time.Now()
	out, err := l.next.Complete(ctx, req)
	if err != nil {
		log.Printf("completion (%s, model=%s): %d prompt bytes, failed after %s: %v",
			l.next.Name(), req.Model, len(req.Prompt), time.Since(start).Round(time.Millisecond), err)
		return out, err
	}
	log.Printf("completion (%s, model=%s): %d prompt bytes -> %d chars in %s (truncated=%v)",
		l.next.Name(), req.Model, len(req.Prompt), len(out.Text),
		time.Since(start).Round(time.Millisecond), out.Truncated)
	return out, nil
}

// ResponseSink receives a copy of every raw completion, for post-mortem
// of extraction failures. Implementations must not block for long; sink
// errors are logged, never surfaced.
type ResponseSink interface {
	Archive(ctx context.Context, req Request, out Completion) error
}

// WithArchive tees every successful completion into sink.
func WithArchive(sink ResponseSink) Middleware {
	return func(next CompletionClient) CompletionClient {
		return &archiving{next: next, sink: sink}
	}
}

type archiving struct {
	next CompletionClient
	sink ResponseSink
}

func (a *archiving) Name() string { return a.next.Name() }
func (a *archiving) Close() error { return a.next.Close() }

func (a *archiving) Complete(ctx context.Context, req Request) (Completion, error) {
	out, err := a.next.Complete(ctx, req)
	if err != nil {
		return out, err
	}
	if a.sink != nil {
		if archiveErr := a.sink.Archive(ctx, req, out); archiveErr != nil {
			log.Printf("completion archive failed: %v", archiveErr)
		}
	}
	return out, nil
}
