package chunk

import "voxelworld.ai/internal/sim/world/terrain/voxel"

// Voxel returns the type at local (x, y, z), or Air when out of range.
// Compressed chunks are read in place.
func (c *Chunk) Voxel(x, y, z int) voxel.Type {
	i, ok := c.Index(x, y, z)
	if !ok {
		return voxel.Air
	}
	if c.rle == nil {
		return c.voxels[i]
	}
	out := voxel.Air
	w := 0
	c.forEachRun(func(t voxel.Type, n int) bool {
		if i < w+n {
			out = t
			return false
		}
		w += n
		return true
	})
	return out
}

// Material returns the material at local (x, y, z), or Air's when out of range.
func (c *Chunk) Material(x, y, z int) voxel.Material {
	i, ok := c.Index(x, y, z)
	if !ok {
		return voxel.MaterialOf(voxel.Air)
	}
	if c.rle == nil {
		return c.materials[i]
	}
	return voxel.MaterialOf(c.Voxel(x, y, z))
}

// SetVoxel writes t at local (x, y, z). Out-of-range writes and writes of
// the value already stored are ignored.
func (c *Chunk) SetVoxel(x, y, z int, t voxel.Type) {
	i, ok := c.Index(x, y, z)
	if !ok {
		return
	}
	c.Decompress()
	if c.voxels[i] == t {
		return
	}
	c.voxels[i] = t
	c.materials[i] = voxel.MaterialOf(t)
	c.markEdited()
}

func (c *Chunk) markEdited() {
	c.dirty = true
	c.version++
}

// Populate overwrites every voxel with fn(x, y, z) in index order. It is the
// generator's write path: the chunk becomes dirty but its edit version is
// left alone.
func (c *Chunk) Populate(fn func(x, y, z int) voxel.Type) {
	c.Decompress()
	s := c.size
	i := 0
	for y := 0; y < s; y++ {
		for z := 0; z < s; z++ {
			for x := 0; x < s; x++ {
				t := fn(x, y, z)
				c.voxels[i] = t
				c.materials[i] = voxel.MaterialOf(t)
				i++
			}
		}
	}
	c.dirty = true
}

// Fill sets every voxel to t.
func (c *Chunk) Fill(t voxel.Type) {
	c.Decompress()
	m := voxel.MaterialOf(t)
	changed := false
	for i := range c.voxels {
		if c.voxels[i] != t {
			c.voxels[i] = t
			c.materials[i] = m
			changed = true
		}
	}
	if changed {
		c.markEdited()
	}
}

// FillRegion sets every voxel in the inclusive box [min, max], clamped to
// the chunk, to t.
func (c *Chunk) FillRegion(min, max [3]int, t voxel.Type) {
	lo, hi, ok := c.clampBox(min, max)
	if !ok {
		return
	}
	c.Decompress()
	m := voxel.MaterialOf(t)
	changed := false
	for y := lo[1]; y <= hi[1]; y++ {
		for z := lo[2]; z <= hi[2]; z++ {
			for x := lo[0]; x <= hi[0]; x++ {
				i, _ := c.Index(x, y, z)
				if c.voxels[i] != t {
					c.voxels[i] = t
					c.materials[i] = m
					changed = true
				}
			}
		}
	}
	if changed {
		c.markEdited()
	}
}

// Sphere sets every voxel whose squared distance to center is at most
// radius^2 to t.
func (c *Chunk) Sphere(center [3]int, radius int, t voxel.Type) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	lo, hi, ok := c.clampBox(
		[3]int{center[0] - radius, center[1] - radius, center[2] - radius},
		[3]int{center[0] + radius, center[1] + radius, center[2] + radius},
	)
	if !ok {
		return
	}
	c.Decompress()
	m := voxel.MaterialOf(t)
	changed := false
	for y := lo[1]; y <= hi[1]; y++ {
		dy := y - center[1]
		for z := lo[2]; z <= hi[2]; z++ {
			dz := z - center[2]
			for x := lo[0]; x <= hi[0]; x++ {
				dx := x - center[0]
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				i, _ := c.Index(x, y, z)
				if c.voxels[i] != t {
					c.voxels[i] = t
					c.materials[i] = m
					changed = true
				}
			}
		}
	}
	if changed {
		c.markEdited()
	}
}

func (c *Chunk) clampBox(min, max [3]int) (lo, hi [3]int, ok bool) {
	for a := 0; a < 3; a++ {
		l, h := min[a], max[a]
		if l > h {
			l, h = h, l
		}
		lo[a] = clamp(l, 0, c.size-1)
		hi[a] = clamp(h, 0, c.size-1)
		if h < 0 || l >= c.size {
			return lo, hi, false
		}
	}
	return lo, hi, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsEmpty reports whether every voxel is Air.
func (c *Chunk) IsEmpty() bool {
	return c.IsFull(voxel.Air)
}

// IsFull reports whether every voxel is t.
func (c *Chunk) IsFull(t voxel.Type) bool {
	return c.Count(t) == c.Volume()
}

// Count returns the number of voxels of type t.
func (c *Chunk) Count(t voxel.Type) int {
	if c.rle == nil {
		n := 0
		for _, v := range c.voxels {
			if v == t {
				n++
			}
		}
		return n
	}
	n := 0
	c.forEachRun(func(rt voxel.Type, rn int) bool {
		if rt == t {
			n += rn
		}
		return true
	})
	return n
}
