package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxelworld.ai/internal/logging"
	"voxelworld.ai/internal/persistence/indexdb"
	persistlog "voxelworld.ai/internal/persistence/log"
	"voxelworld.ai/internal/persistence/snapshot"
	"voxelworld.ai/internal/sim/tuning"
	"voxelworld.ai/internal/sim/world/terrain/store"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func main() {
	var (
		worldName  = flag.String("world", "world_1", "world directory name under <data>/worlds")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (defaults are used when missing)")
		seed       = flag.Int64("seed", 0, "world seed override (0 keeps the tuning seed; ignored when resuming)")
		logLevel   = flag.String("log_level", "", "log level override (debug|info|warn|error)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite snapshot/event index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to resume from (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "resume from the latest snapshot in the world dir when -snapshot is empty")
		fullSnap   = flag.Bool("full_snapshots", false, "store voxel data for unedited chunks too")

		steps       = flag.Int("steps", 256, "number of viewer steps to simulate")
		start       = flag.String("start", "0,40,0", "viewer start position x,y,z")
		dir         = flag.String("dir", "1,0,0", "viewer heading x,y,z")
		speed       = flag.Float64("speed", 4, "viewer speed in voxels per step")
		stepEvery   = flag.Duration("step_every", 0, "wall-clock delay between steps (0 runs flat out)")
		carveEvery  = flag.Int("carve_every", 0, "carve a sphere under the viewer every N steps (0 disables)")
		carveRadius = flag.Int("carve_radius", 3, "radius of carved spheres")
		carveWith   = flag.String("carve_with", "AIR", "voxel type used for carving")
	)
	flag.Parse()

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}
	if *logLevel != "" {
		tune.Log.Level = *logLevel
	}
	if *seed != 0 {
		tune.World.Seed = *seed
	}

	logger, closeLog, err := logging.New(tune.LogConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()
	logger = logger.Named("server")

	startPos, err := parseVec3(*start)
	if err != nil {
		logger.Fatal("bad -start", zap.Error(err))
	}
	heading, err := parseVec3(*dir)
	if err != nil {
		logger.Fatal("bad -dir", zap.Error(err))
	}
	if heading.Len() == 0 {
		logger.Fatal("-dir must be non-zero")
	}
	heading = heading.Normalize()
	carveType, err := voxel.ParseType(*carveWith)
	if err != nil {
		logger.Fatal("bad -carve_with", zap.Error(err))
	}

	worldDir := filepath.Join(*dataDir, "worlds", *worldName)
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		logger.Fatal("create world dir", zap.Error(err))
	}

	// Optional read-model index; snapshots and event logs stay authoritative.
	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
		if err != nil {
			logger.Fatal("open index", zap.Error(err))
		}
		defer idx.Close()
	}
	eventLog := persistlog.NewChunkEventLogger(worldDir)
	defer eventLog.Close()

	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = snapshot.Latest(filepath.Join(worldDir, "snapshots"))
	}

	var (
		resume    *snapshot.Snapshot
		worldID   = uuid.NewString()
		startTick uint64
	)
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatal("read snapshot", zap.String("path", snapshotToLoad), zap.Error(err))
		}
		resume = &snap
		worldID = snap.Header.WorldID
		startTick = snap.Header.Tick + 1
		tune.World.Seed = snap.Header.Seed
		tune.World.ChunkSize = snap.Header.ChunkSize
	}

	cfg := tune.StoreConfig()
	if resume != nil {
		cfg.Terrain = resume.Header.Terrain
	}
	w, err := store.New(cfg,
		store.WithLogger(logger.Named("world")),
		store.WithEventSink(multiSink{eventLog, idx}),
	)
	if err != nil {
		logger.Fatal("world", zap.Error(err))
	}
	defer w.Close()

	if resume != nil {
		w.RestoreClock(resume.Header.Clock)
		if err := w.ImportChunks(resume.Chunks); err != nil {
			logger.Fatal("import snapshot", zap.Error(err))
		}
		logger.Info("resumed from snapshot",
			zap.String("path", filepath.Base(snapshotToLoad)),
			zap.Uint64("tick", resume.Header.Tick),
			zap.Int("chunks", len(resume.Chunks)))
	}

	logger.Info("world ready",
		zap.String("world_id", worldID),
		zap.Int64("seed", cfg.Seed),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("max_chunks", cfg.MaxChunks),
		zap.Int("workers", cfg.Workers))

	ctx, cancel := signalContext()
	defer cancel()

	sw := snapshotWriter{
		worldDir:  worldDir,
		worldID:   worldID,
		full:      *fullSnap,
		archiveAt: tune.Persistence.ArchiveEveryTicks,
		idx:       idx,
		log:       logger,
	}
	run := walk{
		world:       w,
		start:       startPos,
		dir:         heading,
		speed:       *speed,
		carveEvery:  *carveEvery,
		carveRadius: *carveRadius,
		carveWith:   carveType,
		idleTicks:   tune.Persistence.CompressIdleTicks,
		snapEvery:   tune.Persistence.SnapshotEveryTicks,
		snap:        sw,
		log:         logger,
	}
	lastTick, err := run.Run(ctx, startTick, *steps, *stepEvery)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("walk stopped", zap.Error(err))
	}
	if _, err := sw.Write(w, lastTick); err != nil {
		logger.Error("final snapshot", zap.Error(err))
	}

	st := w.Stats()
	logger.Info("shutdown",
		zap.Uint64("tick", lastTick),
		zap.Int("resident", st.Resident),
		zap.Uint64("hits", st.Hits),
		zap.Uint64("misses", st.Misses),
		zap.Uint64("evicted", st.Evicted),
		zap.Uint64("unloaded", st.Unloaded),
		zap.Uint64("compressed", st.Compressed))
	if idx != nil {
		if is := idx.Stats(); is.DropEventTotal > 0 || is.DropSnapshotTotal > 0 {
			logger.Warn("index dropped writes",
				zap.Uint64("events", is.DropEventTotal),
				zap.Uint64("snapshots", is.DropSnapshotTotal))
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
