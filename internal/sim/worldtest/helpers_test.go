package worldtest

import (
	"voxelworld.ai/internal/sim/world/terrain/store"
)

func testConfig(seed int64, workers int) store.Config {
	cfg := store.DefaultConfig()
	cfg.ChunkSize = 16
	cfg.MaxChunks = 512
	cfg.Seed = seed
	cfg.LoadDistance = 2
	cfg.UnloadDistance = 3
	cfg.Workers = workers
	return cfg
}
