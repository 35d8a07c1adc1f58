package store

import (
	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
)

// insert makes ch resident, evicting until there is room.
func (w *World) insert(ch *chunk.Chunk) {
	for len(w.chunks) >= w.cfg.MaxChunks {
		if !w.evictOldest() {
			break
		}
	}
	ch.Touch(w.tick())
	w.chunks[ch.Pos] = ch
	w.log.Debug("chunk loaded", zap.Stringer("pos", ch.Pos), zap.Int("resident", len(w.chunks)))
	w.emit(EventLoaded, ch.Pos)
}

// oldest returns the resident chunk with the smallest last access, ties
// going to the smaller position.
func (w *World) oldest() (chunk.Position, bool) {
	var (
		best     chunk.Position
		bestTick uint64
		found    bool
	)
	for p, ch := range w.chunks {
		t := ch.LastAccess()
		if !found || t < bestTick || (t == bestTick && p.Less(best)) {
			best, bestTick, found = p, t, true
		}
	}
	return best, found
}

func (w *World) evictOldest() bool {
	p, ok := w.oldest()
	if !ok {
		return false
	}
	delete(w.chunks, p)
	w.stats.Evicted++
	w.log.Debug("chunk evicted", zap.Stringer("pos", p))
	w.emit(EventEvicted, p)
	return true
}
