package store

import (
	"fmt"

	"go.uber.org/zap"

	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

// ExportChunks returns a record for every resident chunk in Position.Less
// order. Unless full is set, chunks that were never edited are exported
// without voxel data so they regenerate from the seed on import. Exporting
// does not compress or touch any chunk.
func (w *World) ExportChunks(full bool) []snapshot.ChunkRecord {
	keys := w.LoadedChunkKeys()
	out := make([]snapshot.ChunkRecord, 0, len(keys))
	for _, p := range keys {
		ch := w.chunks[p]
		rec := snapshot.ChunkRecord{
			Size:    uint32(ch.Size()),
			Pos:     p,
			Version: ch.Version(),
		}
		if full || ch.Version() > 0 {
			rec.Data = ch.EncodeRLE()
		}
		out = append(out, rec)
	}
	return out
}

// RestoreClock moves the logical clock forward to c so ticks issued after a
// resume continue the saved session instead of repeating it. It never moves
// the clock backwards.
func (w *World) RestoreClock(c uint64) {
	if c > w.clock {
		w.clock = c
	}
}

// ImportChunks replaces the resident set with recs. Records carrying data
// are restored compressed; empty records are regenerated. Records beyond
// MaxChunks evict the earliest imported ones.
func (w *World) ImportChunks(recs []snapshot.ChunkRecord) error {
	loaded := make([]*chunk.Chunk, 0, len(recs))
	for i, rec := range recs {
		if int(rec.Size) != w.cfg.ChunkSize {
			return fmt.Errorf("%w: record %d chunk size %d, world chunk size %d", snapshot.ErrBadRecord, i, rec.Size, w.cfg.ChunkSize)
		}
		var (
			ch  *chunk.Chunk
			err error
		)
		if len(rec.Data) == 0 {
			ch, err = w.build(rec.Pos)
		} else {
			ch, err = chunk.FromCompressed(rec.Pos, int(rec.Size), rec.Version, rec.Data)
		}
		if err != nil {
			return fmt.Errorf("import record %d: %w", i, err)
		}
		loaded = append(loaded, ch)
	}

	clear(w.chunks)
	for _, ch := range loaded {
		w.insert(ch)
	}
	w.log.Info("imported chunks", zap.Int("records", len(recs)), zap.Int("resident", len(w.chunks)))
	return nil
}
