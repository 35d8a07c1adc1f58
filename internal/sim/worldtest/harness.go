package worldtest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/store"
)

// Harness drives a world through its exported API only:
//   - Walk()/StepTo() stream chunks around a moving viewer
//   - Digest() summarises the resident set and chunk contents
//   - Snapshot()/Resume() round-trip the world through a snapshot file
type Harness struct {
	T *testing.T
	W *store.World

	Tick uint64
}

func NewHarness(t *testing.T, cfg store.Config, opts ...store.Option) *Harness {
	t.Helper()
	w, err := store.New(cfg, opts...)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return &Harness{T: t, W: w}
}

// StepTo streams around viewer and advances the harness tick.
func (h *Harness) StepTo(viewer mgl64.Vec3) {
	h.T.Helper()
	if err := h.W.UpdateChunks(viewer); err != nil {
		h.T.Fatalf("tick %d UpdateChunks(%v): %v", h.Tick, viewer, err)
	}
	h.Tick++
}

// Walk steps n times from start along step.
func (h *Harness) Walk(start, step mgl64.Vec3, n int) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.StepTo(start.Add(step.Mul(float64(i))))
	}
}

// Digest hashes the sorted resident positions with each chunk's voxel
// digest and version. Chunk representation (dense or compressed) does not
// affect it.
func (h *Harness) Digest() string {
	hash := sha256.New()
	var buf [16]byte
	for _, p := range h.W.LoadedChunkKeys() {
		ch, _ := h.W.GetChunk(p)
		binary.LittleEndian.PutUint32(buf[0:], uint32(p.X))
		binary.LittleEndian.PutUint32(buf[4:], uint32(p.Y))
		binary.LittleEndian.PutUint32(buf[8:], uint32(p.Z))
		binary.LittleEndian.PutUint32(buf[12:], ch.Version())
		hash.Write(buf[:])
		d := ch.Digest()
		hash.Write(d[:])
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// Snapshot writes the world to dir and returns the file path.
func (h *Harness) Snapshot(dir string, full bool) string {
	h.T.Helper()
	cfg := h.W.Config()
	path := filepath.Join(dir, snapshot.FileName(h.Tick))
	err := snapshot.WriteSnapshot(path, snapshot.Snapshot{
		Header: snapshot.Header{
			WorldID:   "test",
			Tick:      h.Tick,
			Seed:      cfg.Seed,
			ChunkSize: cfg.ChunkSize,
			Clock:     h.W.Clock(),
			Terrain:   cfg.Terrain,
		},
		Chunks: h.W.ExportChunks(full),
	})
	if err != nil {
		h.T.Fatalf("WriteSnapshot: %v", err)
	}
	return path
}

// Resume builds a new harness from a snapshot file using cfg for
// everything the snapshot does not carry.
func Resume(t *testing.T, path string, cfg store.Config, opts ...store.Option) *Harness {
	t.Helper()
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	cfg.Seed = snap.Header.Seed
	cfg.ChunkSize = snap.Header.ChunkSize
	cfg.Terrain = snap.Header.Terrain
	h := NewHarness(t, cfg, opts...)
	h.W.RestoreClock(snap.Header.Clock)
	if err := h.W.ImportChunks(snap.Chunks); err != nil {
		t.Fatalf("ImportChunks: %v", err)
	}
	h.Tick = snap.Header.Tick
	return h
}
