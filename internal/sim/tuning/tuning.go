package tuning

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxelworld.ai/internal/logging"
	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/gen"
	"voxelworld.ai/internal/sim/world/terrain/store"
)

var ErrInvalid = errors.New("invalid tuning")

//go:embed tuning.schema.json
var schemaJSON string

type Tuning struct {
	World       World       `yaml:"world"`
	Terrain     Terrain     `yaml:"terrain"`
	Persistence Persistence `yaml:"persistence"`
	Log         Log         `yaml:"log"`
}

type World struct {
	ChunkSize      int   `yaml:"chunk_size"`
	MaxChunks      int   `yaml:"max_chunks"`
	Seed           int64 `yaml:"seed"`
	LoadDistance   int   `yaml:"chunk_load_distance"`
	UnloadDistance int   `yaml:"chunk_unload_distance"`
	Workers        int   `yaml:"workers"`
}

type Terrain struct {
	SeaLevel          int     `yaml:"sea_level"`
	HeightScale       float64 `yaml:"height_scale"`
	MountainFrequency float64 `yaml:"mountain_frequency"`
	Octaves           int     `yaml:"octaves"`
	CaveFrequency     float64 `yaml:"cave_frequency"`
	CaveThreshold     float64 `yaml:"cave_threshold"`
	OreFrequency      float64 `yaml:"ore_frequency"`
	DirtDepth         int     `yaml:"dirt_depth"`
}

type Persistence struct {
	SnapshotEveryTicks uint64 `yaml:"snapshot_every_ticks"`
	ArchiveEveryTicks  uint64 `yaml:"archive_every_ticks"`
	CompressIdleTicks  uint64 `yaml:"compress_idle_ticks"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Defaults() Tuning {
	sc := store.DefaultConfig()
	tp := gen.DefaultTerrainParams()
	fc := logging.DefaultFileConfig("")
	return Tuning{
		World: World{
			ChunkSize:      sc.ChunkSize,
			MaxChunks:      sc.MaxChunks,
			Seed:           1337,
			LoadDistance:   sc.LoadDistance,
			UnloadDistance: sc.UnloadDistance,
			Workers:        0,
		},
		Terrain: Terrain{
			SeaLevel:          tp.SeaLevel,
			HeightScale:       tp.HeightScale,
			MountainFrequency: tp.MountainFrequency,
			Octaves:           tp.Octaves,
			CaveFrequency:     tp.CaveFrequency,
			CaveThreshold:     tp.CaveThreshold,
			OreFrequency:      tp.OreFrequency,
			DirtDepth:         tp.DirtDepth,
		},
		Persistence: Persistence{
			SnapshotEveryTicks: 600,
			ArchiveEveryTicks:  0,
			CompressIdleTicks:  256,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAgeDays: fc.MaxAgeDays,
		},
	}
}

// Load reads a YAML tuning file over Defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Tuning, error) {
	t := Defaults()
	if err := validateSchema(raw); err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func validateSchema(raw []byte) error {
	schema, err := jsonschema.CompileString("tuning.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compile tuning schema: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	// The validator wants JSON-decoded values (float64 numbers, string keys).
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (t Tuning) Validate() error {
	w := t.World
	if w.ChunkSize <= 0 || w.ChunkSize > chunk.MaxSize {
		return fmt.Errorf("%w: world.chunk_size %d out of range (1..%d)", ErrInvalid, w.ChunkSize, chunk.MaxSize)
	}
	if w.MaxChunks <= 0 {
		return fmt.Errorf("%w: world.max_chunks must be positive", ErrInvalid)
	}
	if w.UnloadDistance <= w.LoadDistance {
		return fmt.Errorf("%w: world.chunk_unload_distance (%d) must exceed chunk_load_distance (%d)", ErrInvalid, w.UnloadDistance, w.LoadDistance)
	}
	if t.Terrain.Octaves < 1 {
		return fmt.Errorf("%w: terrain.octaves must be >= 1", ErrInvalid)
	}
	return nil
}

func (t Tuning) TerrainParams() gen.TerrainParams {
	p := t.Terrain
	return gen.TerrainParams{
		SeaLevel:          p.SeaLevel,
		HeightScale:       p.HeightScale,
		MountainFrequency: p.MountainFrequency,
		Octaves:           p.Octaves,
		CaveFrequency:     p.CaveFrequency,
		CaveThreshold:     p.CaveThreshold,
		OreFrequency:      p.OreFrequency,
		DirtDepth:         p.DirtDepth,
	}
}

// StoreConfig converts the world and terrain sections. Workers <= 0 means
// one per CPU.
func (t Tuning) StoreConfig() store.Config {
	workers := t.World.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return store.Config{
		ChunkSize:      t.World.ChunkSize,
		MaxChunks:      t.World.MaxChunks,
		Seed:           t.World.Seed,
		LoadDistance:   t.World.LoadDistance,
		UnloadDistance: t.World.UnloadDistance,
		Workers:        workers,
		Terrain:        t.TerrainParams(),
	}
}

func (t Tuning) LogConfig() logging.Config {
	fc := logging.DefaultFileConfig(t.Log.File)
	fc.MaxSizeMB = t.Log.MaxSizeMB
	fc.MaxBackups = t.Log.MaxBackups
	fc.MaxAgeDays = t.Log.MaxAgeDays
	return logging.Config{Level: t.Log.Level, File: fc, Console: os.Stderr}
}
