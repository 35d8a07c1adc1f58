package voxel

// Material is the physical and visual description of a voxel. It is fully
// determined by its Type.
type Material struct {
	Type      Type
	Color     [4]float32 // RGBA in [0,1]
	Hardness  float32
	Metallic  float32
	Roughness float32
	Emission  float32
}

type materialDef struct {
	color     [4]float32
	hardness  float32
	metallic  float32
	roughness float32
	emission  float32
}

var materials = [numBuiltin]materialDef{
	Air:        {color: [4]float32{0, 0, 0, 0}},
	Stone:      {color: [4]float32{0.5, 0.5, 0.5, 1}, hardness: 1.5, roughness: 0.9},
	Dirt:       {color: [4]float32{0.55, 0.37, 0.2, 1}, hardness: 0.5, roughness: 1},
	Grass:      {color: [4]float32{0.3, 0.7, 0.2, 1}, hardness: 0.6, roughness: 0.95},
	Water:      {color: [4]float32{0.2, 0.4, 0.8, 0.6}, roughness: 0.05},
	Sand:       {color: [4]float32{0.9, 0.85, 0.6, 1}, hardness: 0.5, roughness: 1},
	Wood:       {color: [4]float32{0.6, 0.45, 0.25, 1}, hardness: 2, roughness: 0.8},
	Leaves:     {color: [4]float32{0.2, 0.55, 0.15, 0.9}, hardness: 0.2, roughness: 0.9},
	CoalOre:    {color: [4]float32{0.2, 0.2, 0.2, 1}, hardness: 3, roughness: 0.85},
	IronOre:    {color: [4]float32{0.7, 0.6, 0.55, 1}, hardness: 3, metallic: 0.6, roughness: 0.6},
	CopperOre:  {color: [4]float32{0.75, 0.45, 0.3, 1}, hardness: 3, metallic: 0.7, roughness: 0.5},
	GoldOre:    {color: [4]float32{1, 0.85, 0.2, 1}, hardness: 3, metallic: 1, roughness: 0.3},
	DiamondOre: {color: [4]float32{0.4, 0.9, 0.95, 1}, hardness: 5, metallic: 0.1, roughness: 0.1},
	Bedrock:    {color: [4]float32{0.15, 0.15, 0.15, 1}, hardness: -1, roughness: 1},
	Lava:       {color: [4]float32{1, 0.35, 0.05, 1}, roughness: 0.4, emission: 1},
	Ice:        {color: [4]float32{0.7, 0.85, 1, 0.8}, hardness: 0.5, roughness: 0.05},
	Snow:       {color: [4]float32{0.95, 0.95, 1, 1}, hardness: 0.2, roughness: 0.9},
	Clay:       {color: [4]float32{0.6, 0.62, 0.7, 1}, hardness: 0.6, roughness: 0.9},
	Gravel:     {color: [4]float32{0.52, 0.5, 0.48, 1}, hardness: 0.6, roughness: 1},
	Obsidian:   {color: [4]float32{0.1, 0.05, 0.15, 1}, hardness: 50, roughness: 0.2},
	Glass:      {color: [4]float32{0.85, 0.95, 1, 0.3}, hardness: 0.3, roughness: 0.02},
	Brick:      {color: [4]float32{0.65, 0.3, 0.25, 1}, hardness: 2, roughness: 0.9},
	Concrete:   {color: [4]float32{0.7, 0.7, 0.7, 1}, hardness: 1.8, roughness: 0.85},
}

// customMaterial is what every value in the custom range maps to.
var customMaterial = materialDef{color: [4]float32{1, 0, 1, 1}, hardness: 1, roughness: 0.5}

// MaterialOf derives the material for t. MaterialOf(t).Type == t always.
func MaterialOf(t Type) Material {
	def := customMaterial
	if t < numBuiltin {
		def = materials[t]
	}
	return Material{
		Type:      t,
		Color:     def.color,
		Hardness:  def.hardness,
		Metallic:  def.metallic,
		Roughness: def.roughness,
		Emission:  def.emission,
	}
}
