package traverse

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Bitlatte/mosaic/internal/logging"
)

type spyTraverser struct {
	name      string
	remaining []string
	view      View
	err       error
}

func (s *spyTraverser) Traverse(name string, remaining []string) (View, error) {
	s.name, s.remaining = name, remaining
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

type failingTraverser struct{ t *testing.T }

func (f failingTraverser) Traverse(name string, _ []string) (View, error) {
	f.t.Errorf("fallback called for %q", name)
	return nil, nil
}

func loggingContext(w io.Writer) context.Context {
	return logging.WithLogger(context.Background(), log.NewWithOptions(w, log.Options{Level: log.InfoLevel}))
}
