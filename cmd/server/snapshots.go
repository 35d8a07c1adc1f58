package main

import (
	"path/filepath"

	"go.uber.org/zap"

	"voxelworld.ai/internal/persistence/archive"
	"voxelworld.ai/internal/persistence/indexdb"
	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/world/terrain/store"
)

type snapshotWriter struct {
	worldDir  string
	worldID   string
	full      bool
	archiveAt uint64
	idx       *indexdb.SQLiteIndex
	log       *zap.Logger
}

// Write stores the resident set as the snapshot for tick, indexes it and
// archives it when it closes an epoch.
func (sw snapshotWriter) Write(w *store.World, tick uint64) (string, error) {
	cfg := w.Config()
	snap := snapshot.Snapshot{
		Header: snapshot.Header{
			WorldID:   sw.worldID,
			Tick:      tick,
			Seed:      cfg.Seed,
			ChunkSize: cfg.ChunkSize,
			Clock:     w.Clock(),
			Terrain:   cfg.Terrain,
		},
		Chunks: w.ExportChunks(sw.full),
	}
	snap.Header.Chunks = len(snap.Chunks)

	path := filepath.Join(sw.worldDir, "snapshots", snapshot.FileName(tick))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		return "", err
	}
	sw.idx.RecordSnapshot(path, snap)
	sw.log.Info("snapshot written",
		zap.String("path", path),
		zap.Uint64("tick", tick),
		zap.Int("chunks", len(snap.Chunks)),
		zap.Int("compressed_bytes", snap.CompressedBytes()))

	if epoch, archived, ok, err := archive.ArchiveEpochSnapshot(sw.worldDir, path, snap, sw.archiveAt); err != nil {
		sw.log.Warn("archive snapshot", zap.Error(err))
	} else if ok {
		sw.log.Info("snapshot archived", zap.Int("epoch", epoch), zap.String("path", archived))
	}
	return path, nil
}
