package store

import (
	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

type EventKind string

const (
	EventLoaded     EventKind = "LOAD"
	EventEvicted    EventKind = "EVICT"
	EventUnloaded   EventKind = "UNLOAD"
	EventCompressed EventKind = "COMPRESS"
)

// Event records one change to the resident set.
type Event struct {
	Kind EventKind `json:"kind"`
	Pos  [3]int32  `json:"pos"`
	Tick uint64    `json:"tick"`
}

// EventSink receives resident-set events. Errors are logged and otherwise
// ignored.
type EventSink interface {
	WriteEvent(Event) error
}

func (w *World) emit(kind EventKind, p chunk.Position) {
	if w.sink == nil {
		return
	}
	ev := Event{Kind: kind, Pos: [3]int32{p.X, p.Y, p.Z}, Tick: w.clock}
	if err := w.sink.WriteEvent(ev); err != nil {
		w.log.Warn("chunk event sink", zap.String("kind", string(kind)), zap.Error(err))
	}
}
