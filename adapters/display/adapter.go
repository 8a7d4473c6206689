// Package display provides sinks for displayed prices.
// A sink receives the formatted price after every successful prediction cycle.
package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Sink receives formatted prices. It matches pipeline.Display.
type Sink interface {
	Show(ctx context.Context, text string) error
}

// Func adapts a function to Sink
type Func func(ctx context.Context, text string) error

// Show calls f
func (f Func) Show(ctx context.Context, text string) error {
	return f(ctx, text)
}

// WriterSink writes one line per price
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewWriterSink creates a sink writing "<prefix><price>\n" lines
func NewWriterSink(w io.Writer, prefix string) *WriterSink {
	return &WriterSink{w: w, prefix: prefix}
}

// Show writes the price
func (s *WriterSink) Show(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s%s\n", s.prefix, text)
	return err
}

// Label holds the latest price, like the label on a screen
type Label struct {
	mu   sync.RWMutex
	text string
	set  bool
}

// Show replaces the label text
func (l *Label) Show(_ context.Context, text string) error {
	l.mu.Lock()
	l.text = text
	l.set = true
	l.mu.Unlock()
	return nil
}

// Text returns the current label text
func (l *Label) Text() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text, l.set
}

// Multi fans a price out to several sinks; every sink is tried
type Multi []Sink

// Show calls every sink and joins their errors
func (m Multi) Show(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Show(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
