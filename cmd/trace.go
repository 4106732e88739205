// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// summaryExporter writes one line per finished span.
type summaryExporter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ sdktrace.SpanExporter = (*summaryExporter)(nil)

func (e *summaryExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range spans {
		attrs := make([]string, 0, len(s.Attributes()))
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
		}
		elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
		if _, err := fmt.Fprintf(e.w, "trace: %s %s %s\n", s.Name(), elapsed, strings.Join(attrs, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (e *summaryExporter) Shutdown(context.Context) error {
	return nil
}

// newTracerProvider returns a provider that reports each span to w as soon
// as it ends.
func newTracerProvider(w io.Writer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&summaryExporter{w: w}),
	)
}

func shutdownTracer(tp *sdktrace.TracerProvider) {
	_ = tp.Shutdown(context.Background())
}
