// Package gen turns seeded noise into voxel terrain.
package gen

import (
	"errors"
	"math"

	"voxelworld.ai/internal/sim/world/terrain/chunk"
	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

type TerrainParams struct {
	SeaLevel          int     `json:"sea_level"`
	HeightScale       float64 `json:"height_scale"`
	MountainFrequency float64 `json:"mountain_frequency"`
	Octaves           int     `json:"octaves"`
	CaveFrequency     float64 `json:"cave_frequency"`
	CaveThreshold     float64 `json:"cave_threshold"`
	OreFrequency      float64 `json:"ore_frequency"`
	DirtDepth         int     `json:"dirt_depth"`
}

func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		SeaLevel:          32,
		HeightScale:       24,
		MountainFrequency: 0.01,
		Octaves:           4,
		CaveFrequency:     0.06,
		CaveThreshold:     0.55,
		OreFrequency:      0.15,
		DirtDepth:         3,
	}
}

// Ore tiers by depth below the surface, as a fraction of surface height.
const (
	deepRatio = 0.7
	midRatio  = 0.35
)

// Terrain classifies world voxels from three noise fields (height, caves,
// ores). It holds no mutable state and may be shared between goroutines.
type Terrain struct {
	Seed   int64
	Params TerrainParams

	height *Noise
	cave   *Noise
	ore    *Noise
}

func NewTerrain(seed int64, p TerrainParams) *Terrain {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	return &Terrain{
		Seed:   seed,
		Params: p,
		height: NewNoise(NoiseParams{
			Seed:        seed,
			Octaves:     p.Octaves,
			Frequency:   p.MountainFrequency,
			Amplitude:   1,
			Persistence: 0.5,
			Lacunarity:  2,
		}),
		cave: NewNoise(NoiseParams{
			Seed:        seed + 101,
			Octaves:     2,
			Frequency:   p.CaveFrequency,
			Amplitude:   1,
			Persistence: 0.5,
			Lacunarity:  2,
		}),
		ore: NewNoise(NoiseParams{
			Seed:        seed + 202,
			Octaves:     1,
			Frequency:   p.OreFrequency,
			Amplitude:   1,
			Persistence: 0.5,
			Lacunarity:  2,
		}),
	}
}

// HeightAt returns the surface height of column (x, z).
func (t *Terrain) HeightAt(x, z int) int {
	h := t.height.Noise2D(float64(x), float64(z))
	return t.Params.SeaLevel + int(math.Floor(h*t.Params.HeightScale))
}

// Classify returns the voxel at world (x, y, z).
func (t *Terrain) Classify(x, y, z int) voxel.Type {
	return t.classify(x, y, z, t.HeightAt(x, z))
}

func (t *Terrain) classify(x, y, z, h int) voxel.Type {
	if y < 0 {
		return voxel.Bedrock
	}
	if y > h {
		if y <= t.Params.SeaLevel {
			return voxel.Water
		}
		return voxel.Air
	}
	fx, fy, fz := float64(x), float64(y), float64(z)
	if t.cave.Noise3D(fx, fy, fz) > t.Params.CaveThreshold {
		return voxel.Air
	}

	depth := h - y
	ratio := 0.0
	if h > 0 {
		ratio = float64(depth) / float64(h)
	}
	o := t.ore.Noise3D(fx, fy, fz)
	switch {
	case ratio > deepRatio:
		switch {
		case o > 0.6:
			return voxel.DiamondOre
		case o > 0.5:
			return voxel.GoldOre
		case o > 0.4:
			return voxel.IronOre
		}
	case ratio > midRatio:
		switch {
		case o > 0.55:
			return voxel.IronOre
		case o > 0.45:
			return voxel.CopperOre
		case o > 0.35:
			return voxel.CoalOre
		}
	}

	switch {
	case depth == 0:
		return voxel.Grass
	case depth <= t.Params.DirtDepth:
		return voxel.Dirt
	default:
		return voxel.Stone
	}
}

// GenerateChunk fills every voxel of ch from its world position and marks it
// generated.
func (t *Terrain) GenerateChunk(ch *chunk.Chunk) error {
	if ch == nil {
		return errors.New("generate: nil chunk")
	}
	s := ch.Size()
	ox, oy, oz := ch.Pos.ToWorld(s)

	heights := make([]int, s*s)
	for z := 0; z < s; z++ {
		for x := 0; x < s; x++ {
			heights[z*s+x] = t.HeightAt(ox+x, oz+z)
		}
	}
	ch.Populate(func(x, y, z int) voxel.Type {
		return t.classify(ox+x, oy+y, oz+z, heights[z*s+x])
	})
	ch.SetGenerated()
	return nil
}
