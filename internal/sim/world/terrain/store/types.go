// Package store is the bounded chunk cache: it resolves world coordinates to
// resident chunks, generates missing ones, evicts the least recently used
// chunk under capacity pressure and streams chunks around a viewer.
//
// A World is not safe for concurrent use; callers serialise access.
package store

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/gen"
)

var ErrInvalidConfig = errors.New("invalid world config")

// Generator populates a freshly constructed chunk. When Config.Workers > 1
// it is called from several goroutines at once, each with its own chunk.
type Generator interface {
	GenerateChunk(ch *chunk.Chunk) error
}

type Config struct {
	ChunkSize int // voxels per axis
	MaxChunks int // resident cap
	Seed      int64

	// Streaming radii in chunks, Chebyshev metric. UnloadDistance must be
	// strictly greater than LoadDistance.
	LoadDistance   int
	UnloadDistance int

	// Workers bounds parallel generation inside UpdateChunks.
	Workers int

	Terrain gen.TerrainParams
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:      16,
		MaxChunks:      1024,
		LoadDistance:   2,
		UnloadDistance: 4,
		Workers:        runtime.NumCPU(),
		Terrain:        gen.DefaultTerrainParams(),
	}
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkSize > chunk.MaxSize {
		return fmt.Errorf("%w: chunk_size %d out of range (1..%d)", ErrInvalidConfig, c.ChunkSize, chunk.MaxSize)
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("%w: max_chunks must be positive, got %d", ErrInvalidConfig, c.MaxChunks)
	}
	if c.LoadDistance < 0 {
		return fmt.Errorf("%w: chunk_load_distance must be >= 0, got %d", ErrInvalidConfig, c.LoadDistance)
	}
	if c.UnloadDistance <= c.LoadDistance {
		return fmt.Errorf("%w: chunk_unload_distance (%d) must exceed chunk_load_distance (%d)", ErrInvalidConfig, c.UnloadDistance, c.LoadDistance)
	}
	return nil
}

// LoadVolume is the number of chunks inside the load radius.
func (c Config) LoadVolume() int {
	d := 2*c.LoadDistance + 1
	return d * d * d
}

type Stats struct {
	Resident   int    `json:"resident"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Generated  uint64 `json:"generated"`
	Evicted    uint64 `json:"evicted"`
	Unloaded   uint64 `json:"unloaded"`
	Compressed uint64 `json:"compressed"`
}

type World struct {
	cfg    Config
	gen    Generator
	log    *zap.Logger
	sink   EventSink
	chunks map[chunk.Position]*chunk.Chunk

	// clock is the logical access time; it advances on every touch.
	clock uint64
	stats Stats
}

type Option func(*World)

func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithGenerator replaces the seeded terrain generator.
func WithGenerator(g Generator) Option {
	return func(w *World) {
		if g != nil {
			w.gen = g
		}
	}
}

func WithEventSink(s EventSink) Option {
	return func(w *World) { w.sink = s }
}

func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	w := &World{
		cfg:    cfg,
		gen:    gen.NewTerrain(cfg.Seed, cfg.Terrain),
		log:    zap.NewNop(),
		chunks: make(map[chunk.Position]*chunk.Chunk),
	}
	for _, o := range opts {
		o(w)
	}
	w.log.Debug("world created",
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("max_chunks", cfg.MaxChunks),
		zap.Int64("seed", cfg.Seed),
		zap.Int("load_distance", cfg.LoadDistance),
		zap.Int("unload_distance", cfg.UnloadDistance),
	)
	return w, nil
}

// NewDefault builds a world with default streaming radii and terrain.
func NewDefault(chunkSize, maxChunks int, seed int64, opts ...Option) (*World, error) {
	cfg := DefaultConfig()
	cfg.ChunkSize = chunkSize
	cfg.MaxChunks = maxChunks
	cfg.Seed = seed
	return New(cfg, opts...)
}

func (w *World) Config() Config { return w.cfg }
func (w *World) Clock() uint64  { return w.clock }

func (w *World) Stats() Stats {
	s := w.stats
	s.Resident = len(w.chunks)
	return s
}

// Close drops every resident chunk.
func (w *World) Close() {
	n := len(w.chunks)
	clear(w.chunks)
	w.log.Debug("world closed", zap.Int("dropped", n))
}

func (w *World) tick() uint64 {
	w.clock++
	return w.clock
}
