package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 100 * time.Millisecond

// spinner animates a status line while a slow station operation runs:
// connecting to a remote layout store or rendering the split tree as SVG.
// The line shows the elapsed time and is cleared when the spinner stops.
type spinner struct {
	w       io.Writer
	label   string
	start   time.Time
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	stopped chan struct{}

	mu    sync.Mutex
	width int
}

// startSpinner shows label on w until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		label:   label,
		start:   time.Now(),
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := fmt.Sprintf("%s %s", s.label, time.Since(s.start).Round(spinnerInterval))
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// stop clears the status line. It is safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// fail stops the spinner and leaves msg on w in its place.
func (s *spinner) fail(msg string) {
	s.stop()
	fmt.Fprintln(s.w, styleIconError.Render(iconError)+" "+msg)
}

// interrupted reports whether the command's context ended while the
// spinner was showing.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

// spinWhile runs fn with a spinner showing label on w. When fn fails the
// status line is replaced by failMsg, or by a cancellation notice when ctx
// ended first.
func spinWhile[T any](ctx context.Context, w io.Writer, label, failMsg string, fn func(context.Context) (T, error)) (T, error) {
	s := startSpinner(ctx, w, label)
	v, err := fn(ctx)
	if err != nil {
		if s.interrupted() {
			failMsg = "Cancelled"
		}
		s.fail(failMsg)
		return v, err
	}
	s.stop()
	return v, nil
}
