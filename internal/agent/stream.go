package agent

import (
	"context"
	"strings"
)

// Stream delivers generated text incrementally: exactly one producer
// (the generation engine) and one consumer per request. Fragments are
// forwarded in arrival order through a capacity-1 channel, so the
// producer never runs more than one fragment ahead of the consumer.
type Stream struct {
	chunks    chan string
	done      chan struct{}
	collected strings.Builder
	err       error
}

func newStream() *Stream {
	return &Stream{
		chunks: make(chan string, 1),
		done:   make(chan struct{}),
	}
}

// Chunks yields fragments as the engine produces them. The channel is
// closed when the stream completes or fails; check Err afterwards.
func (s *Stream) Chunks() <-chan string {
	return s.chunks
}

// Text blocks until the stream finishes and returns the concatenation of
// every fragment.
func (s *Stream) Text() string {
	<-s.done
	return s.collected.String()
}

// Err blocks until the stream finishes and reports a generation-engine
// failure, if any.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

func (s *Stream) push(ctx context.Context, chunk string) error {
	s.collected.WriteString(chunk)
	select {
	case s.chunks <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stream) text() string {
	return s.collected.String()
}

func (s *Stream) finish() {
	close(s.chunks)
	close(s.done)
}
