package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"voxelworld.ai/internal/persistence/snapshot"
)

type EpochArchiveMeta struct {
	Epoch      int    `json:"epoch"`
	EndTick    uint64 `json:"end_tick"`
	WorldID    string `json:"world_id"`
	Seed       int64  `json:"seed"`
	ChunkSize  int    `json:"chunk_size"`
	Chunks     int    `json:"chunks"`
	Snapshot   string `json:"snapshot"`
	CreatedAt  string `json:"created_at"`
	EpochTicks uint64 `json:"epoch_ticks"`
}

// ArchiveEpochSnapshot copies an epoch-end snapshot into
// worldDir/archives/epoch_<NNN>/. A snapshot ends an epoch when it was taken
// at tick epochTicks*k - 1. epochTicks == 0 disables archiving.
func ArchiveEpochSnapshot(worldDir, snapshotPath string, snap snapshot.Snapshot, epochTicks uint64) (epoch int, archivedPath string, archived bool, err error) {
	if epochTicks == 0 {
		return 0, "", false, nil
	}
	if (snap.Header.Tick+1)%epochTicks != 0 {
		return 0, "", false, nil
	}
	epoch = int((snap.Header.Tick + 1) / epochTicks)
	if epoch <= 0 {
		return 0, "", false, nil
	}

	archiveDir := filepath.Join(worldDir, "archives", fmt.Sprintf("epoch_%03d", epoch))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return 0, "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return 0, "", false, err
	}

	meta := EpochArchiveMeta{
		Epoch:      epoch,
		EndTick:    snap.Header.Tick,
		WorldID:    snap.Header.WorldID,
		Seed:       snap.Header.Seed,
		ChunkSize:  snap.Header.ChunkSize,
		Chunks:     len(snap.Chunks),
		Snapshot:   filepath.Base(dst),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		EpochTicks: epochTicks,
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}

	return epoch, dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
