package chunk

import "github.com/go-gl/mathgl/mgl64"

// Center returns the world-space centre of the chunk.
func (c *Chunk) Center() mgl64.Vec3 {
	x, y, z := c.Pos.ToWorld(c.size)
	h := float64(c.size) / 2
	return mgl64.Vec3{float64(x) + h, float64(y) + h, float64(z) + h}
}

// CalculateLOD picks a detail level from the viewer's distance to the chunk
// centre: 0 under 2 chunk widths, 1 under 4, 2 under 8, else 3. The result
// is also stored as the chunk's LOD hint.
func (c *Chunk) CalculateLOD(viewer mgl64.Vec3) int {
	d := viewer.Sub(c.Center()).Len()
	s := float64(c.size)
	lod := 3
	switch {
	case d < 2*s:
		lod = 0
	case d < 4*s:
		lod = 1
	case d < 8*s:
		lod = 2
	}
	c.lod = lod
	return lod
}
