package scan

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Camera describes one enumerable capture device.
type Camera struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Source is the capture collaborator. The ledger core only consumes the
// decoded text; how decoding happens is the source's business.
// Start blocks until Stop is called or the context is done, invoking
// onDecode zero or more times. Stop must be idempotent.
type Source interface {
	EnumerateCameras() ([]Camera, error)
	Start(ctx context.Context, deviceID string, onDecode func(text string), onError func(error)) error
	Stop()
}

// Session runs one scanning attempt against a Source. The first
// successful decode is forwarded and the source is stopped immediately;
// stopping is a cancellation point, so any decode the source delivers
// after Stop has been requested is dropped.
type Session struct {
	src Source

	mu      sync.Mutex
	stopped bool
}

func NewSession(src Source) *Session {
	return &Session{src: src}
}

// Run starts the source and blocks until it returns. onDecode receives
// at most one non-empty trimmed payload per session.
func (s *Session) Run(ctx context.Context, deviceID string, onDecode func(text string)) error {
	return s.src.Start(ctx, deviceID, func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.stopped = true
		s.mu.Unlock()

		onDecode(text)
		s.src.Stop()
	}, func(err error) {
		// Decode errors are transient; the source keeps scanning.
		log.Debug().Err(err).Msg("scan decode error")
	})
}

// Stop cancels the session. Decodes arriving afterwards are ignored.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.src.Stop()
}
