package store

import (
	"errors"
	"math"
	"sort"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

// ViewerChunk returns the chunk containing the viewer.
func (w *World) ViewerChunk(viewer mgl64.Vec3) chunk.Position {
	return chunk.FromWorld(
		int(math.Floor(viewer.X())),
		int(math.Floor(viewer.Y())),
		int(math.Floor(viewer.Z())),
		w.cfg.ChunkSize,
	)
}

// UpdateChunks streams the resident set around viewer. Every chunk within
// LoadDistance of the viewer's chunk is made resident (and refreshed), then
// every chunk farther than UnloadDistance is unloaded. Distances are
// Chebyshev distances between chunk indices.
//
// Missing chunks are generated in parallel and inserted in order of
// distance. Generation failures are joined into the returned error; the
// chunks that did generate are still inserted.
func (w *World) UpdateChunks(viewer mgl64.Vec3) error {
	center := w.ViewerChunk(viewer)
	r := w.cfg.LoadDistance

	if v := w.cfg.LoadVolume(); v > w.cfg.MaxChunks {
		w.log.Warn("load radius exceeds max_chunks; streaming will evict in-range chunks",
			zap.Int("load_volume", v), zap.Int("max_chunks", w.cfg.MaxChunks))
	}

	var missing []chunk.Position
	for dy := -r; dy <= r; dy++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				p := chunk.Pos(center.X+int32(dx), center.Y+int32(dy), center.Z+int32(dz))
				if ch, ok := w.chunks[p]; ok {
					w.stats.Hits++
					ch.Touch(w.tick())
					continue
				}
				missing = append(missing, p)
			}
		}
	}
	// Farthest first so the nearest chunks end up most recently used.
	sort.SliceStable(missing, func(i, j int) bool {
		di, dj := missing[i].ChebyshevDistance(center), missing[j].ChebyshevDistance(center)
		if di != dj {
			return di > dj
		}
		return missing[i].Less(missing[j])
	})

	built, err := w.buildAll(missing)
	for _, ch := range built {
		if ch == nil {
			continue
		}
		w.stats.Misses++
		w.stats.Generated++
		w.insert(ch)
	}

	unloaded := 0
	for _, p := range w.LoadedChunkKeys() {
		if p.ChebyshevDistance(center) > w.cfg.UnloadDistance {
			w.UnloadChunk(p)
			unloaded++
		}
	}
	if len(missing) > 0 || unloaded > 0 {
		w.log.Debug("streamed chunks",
			zap.Stringer("center", center),
			zap.Int("generated", len(missing)),
			zap.Int("unloaded", unloaded),
			zap.Int("resident", len(w.chunks)),
		)
	}
	return err
}

// buildAll generates chunks for ps on a worker pool. The result is aligned
// with ps; failed entries are nil.
func (w *World) buildAll(ps []chunk.Position) ([]*chunk.Chunk, error) {
	out := make([]*chunk.Chunk, len(ps))
	errs := make([]error, len(ps))
	if len(ps) == 0 {
		return out, nil
	}

	if w.cfg.Workers <= 1 || len(ps) == 1 {
		for i, p := range ps {
			out[i], errs[i] = w.build(p)
		}
		return out, errors.Join(errs...)
	}

	pool := pond.NewPool(min(w.cfg.Workers, len(ps)))
	for i, p := range ps {
		i, p := i, p
		pool.Submit(func() {
			out[i], errs[i] = w.build(p)
		})
	}
	pool.StopAndWait()
	return out, errors.Join(errs...)
}
