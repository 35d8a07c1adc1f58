package store

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func streamConfig(max, workers int) Config {
	cfg := DefaultConfig()
	cfg.ChunkSize = 8
	cfg.MaxChunks = max
	cfg.Seed = 42
	cfg.LoadDistance = 1
	cfg.UnloadDistance = 2
	cfg.Workers = workers
	return cfg
}

func checkStreamInvariants(t *testing.T, w *World, center chunk.Position) {
	t.Helper()
	cfg := w.Config()
	for _, p := range w.LoadedChunkKeys() {
		if d := p.ChebyshevDistance(center); d > cfg.UnloadDistance {
			t.Fatalf("chunk %v at distance %d survived unload radius %d", p, d, cfg.UnloadDistance)
		}
	}
	r := int32(cfg.LoadDistance)
	for dy := -r; dy <= r; dy++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				p := chunk.Pos(center.X+dx, center.Y+dy, center.Z+dz)
				if _, ok := w.GetChunk(p); !ok {
					t.Fatalf("chunk %v inside load radius is not resident", p)
				}
			}
		}
	}
}

func TestUpdateChunksStreamsAroundViewer(t *testing.T) {
	w, err := New(streamConfig(64, 1), WithGenerator(fillGen{voxel.Stone}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.UpdateChunks(mgl64.Vec3{4, 4, 4}); err != nil {
		t.Fatalf("UpdateChunks: %v", err)
	}
	if got := w.LoadedChunkCount(); got != 27 {
		t.Fatalf("expected 27 resident chunks, got %d", got)
	}
	checkStreamInvariants(t, w, chunk.Pos(0, 0, 0))

	// Move three chunks east: planes x=-1 and x=0 fall outside the unload
	// radius, plane x=1 stays as hysteresis.
	if err := w.UpdateChunks(mgl64.Vec3{28, 4, 4}); err != nil {
		t.Fatalf("UpdateChunks: %v", err)
	}
	center := chunk.Pos(3, 0, 0)
	checkStreamInvariants(t, w, center)
	if got := w.LoadedChunkCount(); got != 36 {
		t.Fatalf("expected 36 resident chunks, got %d", got)
	}
	if st := w.Stats(); st.Unloaded != 18 || st.Evicted != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	// A repeat update in place is all hits.
	before := w.Stats()
	if err := w.UpdateChunks(mgl64.Vec3{28, 4, 4}); err != nil {
		t.Fatalf("UpdateChunks: %v", err)
	}
	after := w.Stats()
	if after.Generated != before.Generated || after.Hits != before.Hits+27 {
		t.Fatalf("repeat update should only hit: before=%+v after=%+v", before, after)
	}
}

func TestUpdateChunksNegativeViewer(t *testing.T) {
	w, err := New(streamConfig(64, 1), WithGenerator(fillGen{voxel.Stone}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := mgl64.Vec3{-0.5, -8, -8.25}
	if got := w.ViewerChunk(v); got != chunk.Pos(-1, -1, -2) {
		t.Fatalf("ViewerChunk=%v", got)
	}
	if err := w.UpdateChunks(v); err != nil {
		t.Fatalf("UpdateChunks: %v", err)
	}
	checkStreamInvariants(t, w, chunk.Pos(-1, -1, -2))
}

func TestUpdateChunksUnderCapacity(t *testing.T) {
	w, err := New(streamConfig(10, 1), WithGenerator(fillGen{voxel.Stone}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.UpdateChunks(mgl64.Vec3{4, 4, 4}); err != nil {
		t.Fatalf("UpdateChunks: %v", err)
	}
	if got := w.LoadedChunkCount(); got != 10 {
		t.Fatalf("expected resident count capped at 10, got %d", got)
	}
	if _, ok := w.GetChunk(chunk.Pos(0, 0, 0)); !ok {
		t.Fatalf("viewer chunk should be the last one inserted")
	}
}

func TestUpdateChunksParallelMatchesSequential(t *testing.T) {
	seq, err := New(streamConfig(64, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	par, err := New(streamConfig(64, 4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := mgl64.Vec3{100, 30, -50}
	if err := seq.UpdateChunks(v); err != nil {
		t.Fatalf("sequential: %v", err)
	}
	if err := par.UpdateChunks(v); err != nil {
		t.Fatalf("parallel: %v", err)
	}
	ks, kp := seq.LoadedChunkKeys(), par.LoadedChunkKeys()
	if len(ks) != len(kp) {
		t.Fatalf("resident sets differ: %d vs %d", len(ks), len(kp))
	}
	for i := range ks {
		if ks[i] != kp[i] {
			t.Fatalf("key %d differs: %v vs %v", i, ks[i], kp[i])
		}
		a, _ := seq.GetChunk(ks[i])
		b, _ := par.GetChunk(kp[i])
		if a.Digest() != b.Digest() {
			t.Fatalf("chunk %v differs between sequential and parallel generation", ks[i])
		}
	}
}

func TestUpdateChunksPartialFailure(t *testing.T) {
	bad := chunk.Pos(1, 0, 0)
	w, err := New(streamConfig(64, 3), WithGenerator(failAt{bad: map[chunk.Position]bool{bad: true}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = w.UpdateChunks(mgl64.Vec3{4, 4, 4})
	if !errors.Is(err, errGen) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if _, ok := w.GetChunk(bad); ok {
		t.Fatalf("failed chunk must stay absent")
	}
	if got := w.LoadedChunkCount(); got != 26 {
		t.Fatalf("expected the other 26 chunks resident, got %d", got)
	}
}
