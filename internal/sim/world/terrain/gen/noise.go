package gen

import (
	"math"

	"voxelworld.ai/internal/sim/world/logic/mathx"
)

// NoiseParams configures a fractal gradient noise field.
type NoiseParams struct {
	Seed        int64
	Octaves     int
	Frequency   float64
	Amplitude   float64
	Persistence float64 // amplitude factor per octave
	Lacunarity  float64 // frequency factor per octave
}

func DefaultNoiseParams(seed int64) NoiseParams {
	return NoiseParams{
		Seed:        seed,
		Octaves:     4,
		Frequency:   1,
		Amplitude:   1,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Noise is seeded Perlin noise summed over octaves. Output is a pure function
// of the parameters and the coordinates, within [-Amplitude, Amplitude].
type Noise struct {
	p    NoiseParams
	perm [512]uint8
}

func NewNoise(p NoiseParams) *Noise {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if p.Amplitude == 0 {
		p.Amplitude = 1
	}
	n := &Noise{p: p}
	var base [256]uint8
	for i := range base {
		base[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := int(mathx.Hash3(p.Seed, i, 0x5eed, 0) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}
	for i := 0; i < 512; i++ {
		n.perm[i] = base[i&255]
	}
	return n
}

func (n *Noise) Params() NoiseParams { return n.p }

// Noise2D samples the field at (x, y).
func (n *Noise) Noise2D(x, y float64) float64 {
	return n.fbm(func(freq, off float64) float64 {
		return n.perlin2(x*freq+off, y*freq+off)
	})
}

// Noise3D samples the field at (x, y, z).
func (n *Noise) Noise3D(x, y, z float64) float64 {
	return n.fbm(func(freq, off float64) float64 {
		return n.perlin3(x*freq+off, y*freq+off, z*freq+off)
	})
}

func (n *Noise) fbm(sample func(freq, off float64) float64) float64 {
	amp := 1.0
	freq := n.p.Frequency
	sum, norm := 0.0, 0.0
	for i := 0; i < n.p.Octaves; i++ {
		// Per-octave offset keeps lattice points of different octaves apart.
		sum += amp * sample(freq, float64(i)*17.31)
		norm += amp
		amp *= n.p.Persistence
		freq *= n.p.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	v := sum / norm
	v = math.Max(-1, math.Min(1, v))
	return v * n.p.Amplitude
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad2(h uint8, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

func grad3(h uint8, x, y, z float64) float64 {
	switch h & 15 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x + z
	case 5:
		return -x + z
	case 6:
		return x - z
	case 7:
		return -x - z
	case 8:
		return y + z
	case 9:
		return -y + z
	case 10:
		return y - z
	case 11:
		return -y - z
	case 12:
		return y + x
	case 13:
		return -y + z
	case 14:
		return y - x
	default:
		return -y - z
	}
}

func (n *Noise) perlin2(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi := int(fx) & 255
	yi := int(fy) & 255
	x -= fx
	y -= fy
	u, v := fade(x), fade(y)

	p := &n.perm
	aa := p[int(p[xi])+yi]
	ab := p[int(p[xi])+yi+1]
	ba := p[int(p[xi+1])+yi]
	bb := p[int(p[xi+1])+yi+1]

	return lerp(
		lerp(grad2(aa, x, y), grad2(ba, x-1, y), u),
		lerp(grad2(ab, x, y-1), grad2(bb, x-1, y-1), u),
		v,
	)
}

func (n *Noise) perlin3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi := int(fx) & 255
	yi := int(fy) & 255
	zi := int(fz) & 255
	x -= fx
	y -= fy
	z -= fz
	u, v, w := fade(x), fade(y), fade(z)

	p := &n.perm
	a := int(p[xi]) + yi
	aa := int(p[a]) + zi
	ab := int(p[a+1]) + zi
	b := int(p[xi+1]) + yi
	ba := int(p[b]) + zi
	bb := int(p[b+1]) + zi

	return lerp(
		lerp(
			lerp(grad3(p[aa], x, y, z), grad3(p[ba], x-1, y, z), u),
			lerp(grad3(p[ab], x, y-1, z), grad3(p[bb], x-1, y-1, z), u),
			v,
		),
		lerp(
			lerp(grad3(p[aa+1], x, y, z-1), grad3(p[ba+1], x-1, y, z-1), u),
			lerp(grad3(p[ab+1], x, y-1, z-1), grad3(p[bb+1], x-1, y-1, z-1), u),
			v,
		),
		w,
	)
}
