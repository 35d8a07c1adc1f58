package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"voxelworld.ai/internal/persistence/snapshot"
)

func TestArchiveEpochSnapshot_CopiesEpochEndSnapshot(t *testing.T) {
	dir := t.TempDir()
	worldDir := filepath.Join(dir, "worlds", "w1")

	src := filepath.Join(worldDir, "snapshots", "2.snap.zst")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir snapshots: %v", err)
	}
	want := []byte("dummy")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	snap := snapshot.Snapshot{
		Header: snapshot.Header{Version: 1, WorldID: "w1", Tick: 5, Seed: 42, ChunkSize: 16},
	}

	epoch, archivedPath, ok, err := ArchiveEpochSnapshot(worldDir, src, snap, 3)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !ok {
		t.Fatalf("expected archived=true")
	}
	if epoch != 2 {
		t.Fatalf("epoch=%d want 2", epoch)
	}

	got, err := os.ReadFile(archivedPath)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch: got=%q want=%q", string(got), string(want))
	}

	b, err := os.ReadFile(filepath.Join(filepath.Dir(archivedPath), "meta.json"))
	if err != nil {
		t.Fatalf("expected meta.json to exist: %v", err)
	}
	var meta EpochArchiveMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatalf("meta.json: %v", err)
	}
	if meta.Epoch != 2 || meta.EndTick != 5 || meta.Seed != 42 || meta.Snapshot != "2.snap.zst" {
		t.Fatalf("meta mismatch: %+v", meta)
	}
}

func TestArchiveEpochSnapshot_SkipsMidEpochAndDisabled(t *testing.T) {
	snap := snapshot.Snapshot{Header: snapshot.Header{Tick: 4}}
	if _, _, ok, err := ArchiveEpochSnapshot(t.TempDir(), "missing", snap, 3); ok || err != nil {
		t.Fatalf("mid-epoch snapshot archived: ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := ArchiveEpochSnapshot(t.TempDir(), "missing", snap, 0); ok || err != nil {
		t.Fatalf("disabled archive ran: ok=%v err=%v", ok, err)
	}
}
