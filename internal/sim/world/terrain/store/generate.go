package store

import (
	"fmt"

	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

// build constructs and generates a chunk that is not yet resident. It does
// not touch World state and is safe to run on pool workers.
func (w *World) build(pos chunk.Position) (*chunk.Chunk, error) {
	ch, err := chunk.New(pos, w.cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	if err := w.gen.GenerateChunk(ch); err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", pos, err)
	}
	return ch, nil
}

// CompressIdle compresses every dense chunk not accessed within the last
// idleTicks clock ticks and returns how many were compressed.
func (w *World) CompressIdle(idleTicks uint64) int {
	n := 0
	for _, p := range w.LoadedChunkKeys() {
		ch := w.chunks[p]
		if ch.Compressed() || w.clock-ch.LastAccess() < idleTicks {
			continue
		}
		ch.Compress()
		n++
		w.stats.Compressed++
		w.emit(EventCompressed, p)
	}
	if n > 0 {
		w.log.Debug("compressed idle chunks", zap.Int("count", n), zap.Uint64("idle_ticks", idleTicks))
	}
	return n
}
