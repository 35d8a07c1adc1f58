package store

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/logic/mathx"
	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

// GetChunk looks up a resident chunk without loading it or refreshing its
// recency.
func (w *World) GetChunk(pos chunk.Position) (*chunk.Chunk, bool) {
	ch, ok := w.chunks[pos]
	return ch, ok
}

// LoadChunk returns the chunk at pos, generating it on a miss. A failed load
// leaves pos absent and the resident set untouched.
func (w *World) LoadChunk(pos chunk.Position) (*chunk.Chunk, error) {
	if ch, ok := w.chunks[pos]; ok {
		w.stats.Hits++
		ch.Touch(w.tick())
		return ch, nil
	}
	w.stats.Misses++
	ch, err := w.build(pos)
	if err != nil {
		w.log.Warn("chunk load failed", zap.Stringer("pos", pos), zap.Error(err))
		return nil, err
	}
	w.stats.Generated++
	w.insert(ch)
	return ch, nil
}

// UnloadChunk drops the chunk at pos if it is resident.
func (w *World) UnloadChunk(pos chunk.Position) {
	if _, ok := w.chunks[pos]; !ok {
		return
	}
	delete(w.chunks, pos)
	w.stats.Unloaded++
	w.log.Debug("chunk unloaded", zap.Stringer("pos", pos))
	w.emit(EventUnloaded, pos)
}

func (w *World) LoadedChunkCount() int { return len(w.chunks) }

// LoadedChunkKeys returns the resident positions in Position.Less order.
func (w *World) LoadedChunkKeys() []chunk.Position {
	keys := make([]chunk.Position, 0, len(w.chunks))
	for k := range w.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// NeighborChunks returns the resident chunks around pos in
// Position.Neighbors order. Absent neighbours are nil and should be treated
// as air by mesh builders.
func (w *World) NeighborChunks(pos chunk.Position) [26]*chunk.Chunk {
	var out [26]*chunk.Chunk
	for i, p := range pos.Neighbors() {
		out[i] = w.chunks[p]
	}
	return out
}

func (w *World) locate(x, y, z int) (chunk.Position, int, int, int) {
	s := w.cfg.ChunkSize
	return chunk.FromWorld(x, y, z, s), mathx.Mod(x, s), mathx.Mod(y, s), mathx.Mod(z, s)
}

// VoxelAt returns the voxel at world (x, y, z), loading its chunk if needed.
func (w *World) VoxelAt(x, y, z int) (voxel.Type, error) {
	pos, lx, ly, lz := w.locate(x, y, z)
	ch, err := w.LoadChunk(pos)
	if err != nil {
		return voxel.Air, fmt.Errorf("voxel at (%d,%d,%d): %w", x, y, z, err)
	}
	return ch.Voxel(lx, ly, lz), nil
}

// SetVoxelAt writes the voxel at world (x, y, z), loading its chunk if needed.
func (w *World) SetVoxelAt(x, y, z int, t voxel.Type) error {
	pos, lx, ly, lz := w.locate(x, y, z)
	ch, err := w.LoadChunk(pos)
	if err != nil {
		return fmt.Errorf("set voxel at (%d,%d,%d): %w", x, y, z, err)
	}
	ch.SetVoxel(lx, ly, lz, t)
	return nil
}
