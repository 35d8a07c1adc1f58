// Package chunk holds the fixed-size voxel cube that the world store caches,
// generates and compresses.
package chunk

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

// MaxSize bounds the edge length accepted by New (256^3 voxels).
const MaxSize = 256

var ErrInvalidSize = errors.New("invalid chunk size")

// Chunk is a dense size^3 cube of voxels. At any time exactly one of the
// dense arrays or the RLE buffer is the live representation.
type Chunk struct {
	Pos  Position
	size int

	voxels    []voxel.Type
	materials []voxel.Material
	rle       []byte // non-nil iff compressed

	generated  bool
	dirty      bool
	version    uint32
	lastAccess uint64
	lod        int
}

func checkSize(size int) error {
	if size <= 0 || size > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

// New returns an air-filled chunk.
func New(pos Position, size int) (*Chunk, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	n := size * size * size
	c := &Chunk{
		Pos:       pos,
		size:      size,
		voxels:    make([]voxel.Type, n),
		materials: make([]voxel.Material, n),
	}
	air := voxel.MaterialOf(voxel.Air)
	for i := range c.materials {
		c.materials[i] = air
	}
	return c, nil
}

// FromCompressed rebuilds a chunk whose live representation is the given
// RLE stream. The data is copied.
func FromCompressed(pos Position, size int, version uint32, data []byte) (*Chunk, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Chunk{
		Pos:       pos,
		size:      size,
		rle:       buf,
		generated: true,
		version:   version,
	}, nil
}

func (c *Chunk) Size() int   { return c.size }
func (c *Chunk) Volume() int { return c.size * c.size * c.size }

// Index maps local coordinates to the flat array slot (y slowest, x fastest).
// ok is false when any coordinate is outside [0,size).
func (c *Chunk) Index(x, y, z int) (int, bool) {
	s := c.size
	if x < 0 || y < 0 || z < 0 || x >= s || y >= s || z >= s {
		return 0, false
	}
	return y*s*s + z*s + x, true
}

func (c *Chunk) Generated() bool { return c.generated }

// SetGenerated is called by terrain generators once every voxel is written.
func (c *Chunk) SetGenerated() { c.generated = true }

// Dirty reports whether voxels changed since the last MarkClean. The store
// never clears it; the mesh builder does.
func (c *Chunk) Dirty() bool { return c.dirty }
func (c *Chunk) MarkClean()  { c.dirty = false }

// Version counts edits applied after generation.
func (c *Chunk) Version() uint32 { return c.version }

func (c *Chunk) LastAccess() uint64 { return c.lastAccess }
func (c *Chunk) Touch(tick uint64)  { c.lastAccess = tick }

// LOD returns the hint stored by the last CalculateLOD call.
func (c *Chunk) LOD() int { return c.lod }

func (c *Chunk) Compressed() bool { return c.rle != nil }

// CompressedBytes returns the live RLE buffer, or nil when dense.
func (c *Chunk) CompressedBytes() []byte { return c.rle }

// Digest hashes the voxel type sequence. It is identical for the dense and
// compressed forms of the same content.
func (c *Chunk) Digest() [32]byte {
	h := sha256.New()
	var run [maxRun]byte
	c.forEachRun(func(t voxel.Type, n int) bool {
		for i := 0; i < n; i++ {
			run[i] = byte(t)
		}
		h.Write(run[:n])
		return true
	})
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
