// Package voxel defines the closed catalog of voxel kinds and the material
// derived from each kind.
package voxel

import (
	"fmt"
	"strings"
)

// Type is an 8-bit voxel discriminant. Values at or above CustomBase are
// reserved for callers and carry no meaning here.
type Type uint8

const (
	Air Type = iota
	Stone
	Dirt
	Grass
	Water
	Sand
	Wood
	Leaves
	CoalOre
	IronOre
	CopperOre
	GoldOre
	DiamondOre
	Bedrock
	Lava
	Ice
	Snow
	Clay
	Gravel
	Obsidian
	Glass
	Brick
	Concrete

	numBuiltin
)

const CustomBase Type = 128

var names = [numBuiltin]string{
	Air:        "AIR",
	Stone:      "STONE",
	Dirt:       "DIRT",
	Grass:      "GRASS",
	Water:      "WATER",
	Sand:       "SAND",
	Wood:       "WOOD",
	Leaves:     "LEAVES",
	CoalOre:    "COAL_ORE",
	IronOre:    "IRON_ORE",
	CopperOre:  "COPPER_ORE",
	GoldOre:    "GOLD_ORE",
	DiamondOre: "DIAMOND_ORE",
	Bedrock:    "BEDROCK",
	Lava:       "LAVA",
	Ice:        "ICE",
	Snow:       "SNOW",
	Clay:       "CLAY",
	Gravel:     "GRAVEL",
	Obsidian:   "OBSIDIAN",
	Glass:      "GLASS",
	Brick:      "BRICK",
	Concrete:   "CONCRETE",
}

// IsSolid reports whether t occupies space. Only Air does not.
func (t Type) IsSolid() bool { return t != Air }

func (t Type) IsCustom() bool { return t >= CustomBase }

func (t Type) IsLiquid() bool { return t == Water || t == Lava }

// IsTransparent is a render hint for the mesh builder.
func (t Type) IsTransparent() bool {
	switch t {
	case Air, Water, Glass, Leaves, Ice:
		return true
	}
	return false
}

func (t Type) String() string {
	if t < numBuiltin {
		return names[t]
	}
	if t.IsCustom() {
		return fmt.Sprintf("CUSTOM_%d", int(t-CustomBase))
	}
	return fmt.Sprintf("UNKNOWN_%d", int(t))
}

// ParseType accepts the names produced by String, case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Type(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "CUSTOM_%d", &n); err == nil && n >= 0 && n < 128 {
		return CustomBase + Type(n), nil
	}
	return Air, fmt.Errorf("unknown voxel type %q", s)
}
