package store

import (
	"fmt"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

// FillSphere sets every voxel within radius of the world position center to
// t, loading each chunk the sphere overlaps. It returns the number of chunks
// visited. If the sphere spans more than MaxChunks chunks, earlier chunks
// may be evicted before the edit completes.
func (w *World) FillSphere(center [3]int, radius int, t voxel.Type) (int, error) {
	if radius < 0 {
		return 0, nil
	}
	lo := [3]int{center[0] - radius, center[1] - radius, center[2] - radius}
	hi := [3]int{center[0] + radius, center[1] + radius, center[2] + radius}
	return w.eachChunk(lo, hi, func(ch *chunk.Chunk, ox, oy, oz int) {
		ch.Sphere([3]int{center[0] - ox, center[1] - oy, center[2] - oz}, radius, t)
	})
}

// FillBox sets every voxel in the inclusive world box [min, max] to t.
func (w *World) FillBox(min, max [3]int, t voxel.Type) (int, error) {
	for a := 0; a < 3; a++ {
		if min[a] > max[a] {
			min[a], max[a] = max[a], min[a]
		}
	}
	return w.eachChunk(min, max, func(ch *chunk.Chunk, ox, oy, oz int) {
		ch.FillRegion(
			[3]int{min[0] - ox, min[1] - oy, min[2] - oz},
			[3]int{max[0] - ox, max[1] - oy, max[2] - oz},
			t,
		)
	})
}

// eachChunk loads every chunk overlapping the world box [lo, hi] and calls
// fn with the chunk's world origin.
func (w *World) eachChunk(lo, hi [3]int, fn func(ch *chunk.Chunk, ox, oy, oz int)) (int, error) {
	s := w.cfg.ChunkSize
	a := chunk.FromWorld(lo[0], lo[1], lo[2], s)
	b := chunk.FromWorld(hi[0], hi[1], hi[2], s)
	n := 0
	for cy := a.Y; cy <= b.Y; cy++ {
		for cz := a.Z; cz <= b.Z; cz++ {
			for cx := a.X; cx <= b.X; cx++ {
				p := chunk.Pos(cx, cy, cz)
				ch, err := w.LoadChunk(p)
				if err != nil {
					return n, fmt.Errorf("edit chunk %v: %w", p, err)
				}
				ox, oy, oz := p.ToWorld(s)
				fn(ch, ox, oy, oz)
				n++
			}
		}
	}
	return n, nil
}
