package chunk

import (
	"bytes"
	"testing"

	"voxelworld.ai/internal/sim/world/terrain/voxel"
)

func snapshotTypes(c *Chunk) []voxel.Type {
	out := make([]voxel.Type, 0, c.Volume())
	s := c.Size()
	for y := 0; y < s; y++ {
		for z := 0; z < s; z++ {
			for x := 0; x < s; x++ {
				out = append(out, c.Voxel(x, y, z))
			}
		}
	}
	return out
}

func assertRoundTrip(t *testing.T, c *Chunk) {
	t.Helper()
	before := snapshotTypes(c)
	digest := c.Digest()

	c.Compress()
	if !c.Compressed() {
		t.Fatalf("not compressed")
	}
	if c.Digest() != digest {
		t.Fatalf("digest changed by Compress")
	}
	// Reads work without rehydrating.
	if got := snapshotTypes(c); !equalTypes(got, before) {
		t.Fatalf("compressed reads differ")
	}
	if !c.Compressed() {
		t.Fatalf("read decompressed the chunk")
	}

	c.Decompress()
	if c.Compressed() {
		t.Fatalf("still compressed")
	}
	after := snapshotTypes(c)
	if !equalTypes(after, before) {
		t.Fatalf("voxel sequence changed across round trip")
	}
	s := c.Size()
	for y := 0; y < s; y++ {
		for z := 0; z < s; z++ {
			for x := 0; x < s; x++ {
				if m := c.Material(x, y, z); m != voxel.MaterialOf(c.Voxel(x, y, z)) {
					t.Fatalf("material at %d,%d,%d not rederived", x, y, z)
				}
			}
		}
	}
}

func equalTypes(a, b []voxel.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompressRoundTrip(t *testing.T) {
	t.Run("fill", func(t *testing.T) {
		c := mustNew(t, 16)
		c.Fill(voxel.Stone)
		assertRoundTrip(t, c)
	})
	t.Run("sphere", func(t *testing.T) {
		c := mustNew(t, 16)
		c.Sphere([3]int{8, 8, 8}, 5, voxel.Obsidian)
		assertRoundTrip(t, c)
	})
	t.Run("regions", func(t *testing.T) {
		c := mustNew(t, 16)
		c.FillRegion([3]int{0, 0, 0}, [3]int{15, 3, 15}, voxel.Dirt)
		c.FillRegion([3]int{4, 2, 4}, [3]int{9, 12, 9}, voxel.Water)
		c.SetVoxel(15, 15, 15, voxel.CustomBase+3)
		assertRoundTrip(t, c)
	})
	t.Run("checkerboard", func(t *testing.T) {
		c := mustNew(t, 8)
		c.Populate(func(x, y, z int) voxel.Type {
			if (x+y+z)%2 == 0 {
				return voxel.Glass
			}
			return voxel.Air
		})
		assertRoundTrip(t, c)
	})
}

func TestCompressSplitsLongRuns(t *testing.T) {
	c := mustNew(t, 16)
	c.Fill(voxel.Stone)
	c.Compress()
	buf := c.CompressedBytes()
	// 4096 = 16*255 + 16
	if len(buf) != 17*2 {
		t.Fatalf("len=%d want %d", len(buf), 17*2)
	}
	for i := 0; i < 16; i++ {
		if buf[2*i] != byte(voxel.Stone) || buf[2*i+1] != 255 {
			t.Fatalf("record %d = %v", i, buf[2*i:2*i+2])
		}
	}
	if buf[33] != 16 {
		t.Fatalf("tail count=%d want 16", buf[33])
	}
}

func TestCompressIdempotent(t *testing.T) {
	c := mustNew(t, 8)
	c.SetVoxel(1, 2, 3, voxel.Ice)
	c.Compress()
	first := append([]byte(nil), c.CompressedBytes()...)
	c.Compress()
	if !bytes.Equal(first, c.CompressedBytes()) {
		t.Fatalf("second Compress changed buffer")
	}
	c.Decompress()
	c.Decompress()
	if c.Voxel(1, 2, 3) != voxel.Ice {
		t.Fatalf("lost voxel")
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := appendRuns(nil, nil); len(got) != 0 {
		t.Fatalf("empty input encoded to %v", got)
	}
}

func TestEncodeRLEDoesNotChangeRepresentation(t *testing.T) {
	c := mustNew(t, 4)
	c.Fill(voxel.Clay)
	b := c.EncodeRLE()
	if c.Compressed() {
		t.Fatalf("EncodeRLE compressed the chunk")
	}
	c.Compress()
	if !bytes.Equal(b, c.CompressedBytes()) {
		t.Fatalf("EncodeRLE differs from Compress output")
	}
}

func TestDecodeMalformed(t *testing.T) {
	dst := make([]voxel.Type, 10)
	// Trailing odd byte, zero-length run, overflowing run.
	n := decodeRuns(dst, []byte{byte(voxel.Sand), 3, byte(voxel.Snow), 0, byte(voxel.Clay), 200, 7})
	if n != 10 {
		t.Fatalf("wrote %d want 10", n)
	}
	for i := 0; i < 3; i++ {
		if dst[i] != voxel.Sand {
			t.Fatalf("dst[%d]=%s", i, dst[i])
		}
	}
	for i := 3; i < 10; i++ {
		if dst[i] != voxel.Clay {
			t.Fatalf("dst[%d]=%s", i, dst[i])
		}
	}

	short := make([]voxel.Type, 10)
	if n := decodeRuns(short, []byte{byte(voxel.Sand), 2, byte(voxel.Stone)}); n != 2 {
		t.Fatalf("truncated stream wrote %d want 2", n)
	}
}

func TestFromCompressedTruncatedPadsAir(t *testing.T) {
	c, err := FromCompressed(Pos(0, 0, 0), 4, 3, []byte{byte(voxel.Stone), 10, byte(voxel.Dirt)})
	if err != nil {
		t.Fatal(err)
	}
	if c.Version() != 3 || !c.Generated() {
		t.Fatalf("version=%d generated=%v", c.Version(), c.Generated())
	}
	if c.Count(voxel.Stone) != 10 || c.Count(voxel.Air) != 54 {
		t.Fatalf("stone=%d air=%d", c.Count(voxel.Stone), c.Count(voxel.Air))
	}
	c.Decompress()
	if c.Count(voxel.Stone) != 10 || c.Voxel(1, 0, 2) != voxel.Stone || c.Voxel(3, 3, 3) != voxel.Air {
		t.Fatalf("decompressed contents wrong")
	}
}

func TestCompressedReadsMatchDense(t *testing.T) {
	c := mustNew(t, 8)
	c.Populate(func(x, y, z int) voxel.Type {
		return voxel.Type((x*3 + y*5 + z) % 7)
	})
	dense := make([]voxel.Type, 0, c.Volume())
	for y := 0; y < 8; y++ {
		for z := 0; z < 8; z++ {
			for x := 0; x < 8; x++ {
				dense = append(dense, c.Voxel(x, y, z))
			}
		}
	}
	c.Compress()
	i := 0
	for y := 0; y < 8; y++ {
		for z := 0; z < 8; z++ {
			for x := 0; x < 8; x++ {
				if got := c.Voxel(x, y, z); got != dense[i] {
					t.Fatalf("Voxel(%d,%d,%d)=%v want %v", x, y, z, got, dense[i])
				}
				i++
			}
		}
	}
	if !c.Compressed() {
		t.Fatalf("reads must not decompress")
	}
}

func TestForEachRunStopsEarly(t *testing.T) {
	c := mustNew(t, 16)
	c.Fill(voxel.Stone)
	c.Compress()
	calls := 0
	c.forEachRun(func(voxel.Type, int) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Fatalf("forEachRun made %d calls after fn returned false", calls)
	}
}
