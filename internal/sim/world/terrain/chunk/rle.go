package chunk

import "voxelworld.ai/internal/sim/world/terrain/voxel"

const maxRun = 255

// appendRuns encodes types as (type, count) byte pairs, count in [1,255].
func appendRuns(dst []byte, types []voxel.Type) []byte {
	for i := 0; i < len(types); {
		t := types[i]
		n := 1
		for i+n < len(types) && types[i+n] == t && n < maxRun {
			n++
		}
		dst = append(dst, byte(t), byte(n))
		i += n
	}
	return dst
}

// decodeRuns expands data into dst and returns the number of voxels written.
// A trailing odd byte is ignored, zero-length runs are skipped and runs past
// the end of dst are clamped.
func decodeRuns(dst []voxel.Type, data []byte) int {
	w := 0
	for i := 0; i+1 < len(data) && w < len(dst); i += 2 {
		t := voxel.Type(data[i])
		n := min(int(data[i+1]), len(dst)-w)
		for j := 0; j < n; j++ {
			dst[w+j] = t
		}
		w += n
	}
	return w
}

// forEachRun visits the voxel sequence as runs of at most 255, in index
// order, covering exactly Volume() voxels in either representation. It stops
// as soon as fn returns false.
func (c *Chunk) forEachRun(fn func(t voxel.Type, n int) bool) {
	vol := c.Volume()
	if c.rle == nil {
		for i := 0; i < len(c.voxels); {
			t := c.voxels[i]
			n := 1
			for i+n < len(c.voxels) && c.voxels[i+n] == t && n < maxRun {
				n++
			}
			if !fn(t, n) {
				return
			}
			i += n
		}
		return
	}
	w := 0
	for i := 0; i+1 < len(c.rle) && w < vol; i += 2 {
		n := min(int(c.rle[i+1]), vol-w)
		if n == 0 {
			continue
		}
		if !fn(voxel.Type(c.rle[i]), n) {
			return
		}
		w += n
	}
	for w < vol {
		n := min(maxRun, vol-w)
		if !fn(voxel.Air, n) {
			return
		}
		w += n
	}
}

// EncodeRLE returns the run-length stream of the current contents without
// changing the chunk's representation.
func (c *Chunk) EncodeRLE() []byte {
	if c.rle != nil {
		out := make([]byte, len(c.rle))
		copy(out, c.rle)
		return out
	}
	return appendRuns(make([]byte, 0, 64), c.voxels)
}

// Compress replaces the dense arrays with their RLE stream. No-op when
// already compressed.
func (c *Chunk) Compress() {
	if c.rle != nil {
		return
	}
	c.rle = appendRuns(make([]byte, 0, 64), c.voxels)
	c.voxels = nil
	c.materials = nil
}

// Decompress rebuilds the dense arrays from the RLE stream and drops it.
// Materials are recomputed from the types. No-op when already dense.
func (c *Chunk) Decompress() {
	if c.rle == nil {
		return
	}
	vol := c.Volume()
	voxels := make([]voxel.Type, vol)
	decodeRuns(voxels, c.rle)
	materials := make([]voxel.Material, vol)
	for i, t := range voxels {
		materials[i] = voxel.MaterialOf(t)
	}
	c.voxels = voxels
	c.materials = materials
	c.rle = nil
}
