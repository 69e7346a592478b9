/*
diagnostics.go - Injectable diagnostic sink

PURPOSE:
  The store never surfaces storage or repair problems to its callers; it
  reports them here instead. The sink is injected so hosts choose where
  events go (a structured logger in the server, nothing in tests) without
  the core's control flow depending on it.
*/
package scouting

import "go.uber.org/zap"

// Diagnostic event names emitted by the document store.
const (
	EventLoadFailed   = "storage.load_failed"
	EventSaveFailed   = "storage.save_failed"
	EventDecodeFailed = "document.decode_failed"
	EventRepaired     = "document.repaired"
	EventImportFailed = "import.rejected"
)

// Sink receives diagnostic events from the store. Implementations must not
// panic; the store calls Notify on its hot path.
type Sink interface {
	Notify(event string, fields map[string]any)
}

// NopSink discards every event. It is the default sink.
type NopSink struct{}

func (NopSink) Notify(string, map[string]any) {}

// ZapSink forwards events to a zap logger at warn level.
type ZapSink struct {
	Logger *zap.Logger
}

func (s ZapSink) Notify(event string, fields map[string]any) {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	s.Logger.Warn(event, zapFields...)
}
