package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/store"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3(" 1.5, -2,3 ")
	if err != nil {
		t.Fatalf("parseVec3: %v", err)
	}
	if v != (mgl64.Vec3{1.5, -2, 3}) {
		t.Fatalf("got %v", v)
	}
	for _, bad := range []string{"", "1,2", "1,2,x", "1,2,3,4"} {
		if _, err := parseVec3(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

type countSink struct{ n int }

func (c *countSink) WriteEvent(store.Event) error { c.n++; return nil }

type failSink struct{}

var errSink = errors.New("sink down")

func (failSink) WriteEvent(store.Event) error { return errSink }

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &countSink{}, &countSink{}
	m := multiSink{a, nil, failSink{}, b}
	if err := m.WriteEvent(store.Event{Kind: store.EventLoaded}); !errors.Is(err, errSink) {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if a.n != 1 || b.n != 1 {
		t.Fatalf("every sink should see the event: a=%d b=%d", a.n, b.n)
	}
}

func TestWalkWritesSnapshotsAndCarves(t *testing.T) {
	dir := t.TempDir()
	cfg := store.DefaultConfig()
	cfg.ChunkSize = 8
	cfg.MaxChunks = 64
	cfg.Seed = 3
	cfg.LoadDistance = 1
	cfg.UnloadDistance = 2
	cfg.Workers = 2
	w, err := store.New(cfg)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	r := walk{
		world:       w,
		start:       mgl64.Vec3{0, 4, 0},
		dir:         mgl64.Vec3{1, 0, 0},
		speed:       8,
		carveEvery:  2,
		carveRadius: 2,
		carveWith:   voxel.Glass,
		idleTicks:   64,
		snapEvery:   3,
		snap:        snapshotWriter{worldDir: dir, worldID: "w1", log: zap.NewNop()},
		log:         zap.NewNop(),
	}
	last, err := r.Run(context.Background(), 0, 6, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last != 5 {
		t.Fatalf("last tick=%d want 5", last)
	}
	for _, tick := range []uint64{2, 5} {
		if _, err := os.Stat(filepath.Join(dir, "snapshots", snapshot.FileName(tick))); err != nil {
			t.Fatalf("missing snapshot for tick %d: %v", tick, err)
		}
	}
	if got := snapshot.Latest(filepath.Join(dir, "snapshots")); filepath.Base(got) != "5.snap.zst" {
		t.Fatalf("latest=%q", got)
	}
	snap, err := snapshot.ReadSnapshot(filepath.Join(dir, "snapshots", snapshot.FileName(5)))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	edited := 0
	for _, rec := range snap.Chunks {
		if rec.Version > 0 {
			edited++
		}
	}
	if edited == 0 {
		t.Fatalf("carving should leave edited chunks in the snapshot")
	}
	// Tick 4 carved a glass sphere centred two voxels under the viewer.
	v := r.viewerAt(4)
	if got, _ := w.VoxelAt(int(v.X()), int(v.Y())-2, int(v.Z())); got != voxel.Glass {
		t.Fatalf("carve centre = %v, want GLASS", got)
	}
}

func TestWalkStopsOnCancel(t *testing.T) {
	w, err := store.NewDefault(8, 8, 1)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := walk{world: w, dir: mgl64.Vec3{1, 0, 0}, speed: 1, log: zap.NewNop()}
	last, err := r.Run(ctx, 10, 5, 0)
	if !errors.Is(err, context.Canceled) || last != 9 {
		t.Fatalf("got last=%d err=%v", last, err)
	}
}
