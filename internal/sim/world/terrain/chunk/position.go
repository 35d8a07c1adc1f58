package chunk

import (
	"fmt"

	"voxelworld.ai/internal/sim/world/logic/mathx"
)

// Position is a chunk's index on the integer chunk grid.
type Position struct {
	X, Y, Z int32
}

func Pos(x, y, z int32) Position {
	return Position{X: x, Y: y, Z: z}
}

// ToWorld returns the world coordinate of the chunk's minimum corner.
func (p Position) ToWorld(size int) (x, y, z int) {
	return int(p.X) * size, int(p.Y) * size, int(p.Z) * size
}

// FromWorld returns the chunk containing world voxel (x, y, z). Negative
// coordinates floor toward negative infinity.
func FromWorld(x, y, z, size int) Position {
	return Position{
		X: int32(mathx.FloorDiv(x, size)),
		Y: int32(mathx.FloorDiv(y, size)),
		Z: int32(mathx.FloorDiv(z, size)),
	}
}

// Neighbors returns the 26 surrounding positions ordered by dy, dz, dx.
func (p Position) Neighbors() [26]Position {
	var out [26]Position
	i := 0
	for dy := int32(-1); dy <= 1; dy++ {
		for dz := int32(-1); dz <= 1; dz++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out[i] = Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
				i++
			}
		}
	}
	return out
}

func (p Position) Hash() uint64 {
	x := uint64(int64(p.X))
	y := uint64(int64(p.Y))
	z := uint64(int64(p.Z))
	return x ^ (y << 20) ^ (z << 40)
}

func (p Position) Equal(o Position) bool {
	return p.X == o.X && p.Y == o.Y && p.Z == o.Z
}

// Less orders positions by X, then Y, then Z.
func (p Position) Less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}

func (p Position) ChebyshevDistance(o Position) int {
	return mathx.Chebyshev(int(p.X)-int(o.X), int(p.Y)-int(o.Y), int(p.Z)-int(o.Z))
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}
