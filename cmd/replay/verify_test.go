package main

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/store"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func worldSnapshot(t *testing.T, full bool) (snapshot.Snapshot, *store.World) {
	t.Helper()
	w, err := store.NewDefault(8, 32, 4242)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	for _, p := range []chunk.Position{chunk.Pos(0, 3, 0), chunk.Pos(1, 3, 0), chunk.Pos(0, 4, 0)} {
		if _, err := w.LoadChunk(p); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if _, err := w.FillBox([3]int{1, 25, 1}, [3]int{2, 25, 1}, voxel.Concrete); err != nil {
		t.Fatalf("FillBox: %v", err)
	}
	cfg := w.Config()
	return snapshot.Snapshot{
		Header: snapshot.Header{Seed: cfg.Seed, ChunkSize: cfg.ChunkSize, Terrain: cfg.Terrain},
		Chunks: w.ExportChunks(full),
	}, w
}

func TestVerifyFullSnapshot(t *testing.T) {
	snap, _ := worldSnapshot(t, true)
	rep, err := verify(snap, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.Verified != 2 || rep.Edited != 1 || rep.Mismatched != 0 || rep.Regenerated != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.EditedVoxels < 1 || rep.EditedVoxels > 2 {
		t.Fatalf("edited voxels=%d", rep.EditedVoxels)
	}
}

func TestVerifySparseSnapshot(t *testing.T) {
	snap, _ := worldSnapshot(t, false)
	rep, err := verify(snap, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.Regenerated != 2 || rep.Edited != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestVerifyDetectsTamperedChunk(t *testing.T) {
	snap, _ := worldSnapshot(t, true)
	for i, rec := range snap.Chunks {
		if rec.Version != 0 {
			continue
		}
		// Overwrite the stream with a single run of lava.
		snap.Chunks[i].Data = []byte{byte(voxel.Lava), 255, byte(voxel.Lava), 255}
		break
	}
	rep, err := verify(snap, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rep.Mismatched != 1 {
		t.Fatalf("expected one mismatch, got %+v", rep)
	}
}

func TestVerifyRejectsWrongSize(t *testing.T) {
	snap, _ := worldSnapshot(t, false)
	snap.Header.ChunkSize = 16
	if _, err := verify(snap, 1, zap.NewNop()); !errors.Is(err, snapshot.ErrBadRecord) {
		t.Fatalf("expected ErrBadRecord, got %v", err)
	}
}
