package voxel

import "testing"

func TestOnlyAirIsNotSolid(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := Type(i)
		if v.IsSolid() == (v == Air) {
			t.Fatalf("IsSolid(%s)=%v", v, v.IsSolid())
		}
	}
	var zero Type
	if zero != Air {
		t.Fatalf("zero value is %s, want AIR", zero)
	}
}

func TestMaterialOfKeepsType(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := Type(i)
		if got := MaterialOf(v).Type; got != v {
			t.Fatalf("MaterialOf(%d).Type=%d", i, got)
		}
	}
	if MaterialOf(Lava).Emission <= 0 {
		t.Fatalf("lava should emit light")
	}
	if MaterialOf(Air).Color[3] != 0 {
		t.Fatalf("air should be fully transparent")
	}
}

func TestParseTypeRoundTrip(t *testing.T) {
	for i := Type(0); i < numBuiltin; i++ {
		got, err := ParseType(i.String())
		if err != nil {
			t.Fatalf("ParseType(%q): %v", i.String(), err)
		}
		if got != i {
			t.Fatalf("ParseType(%q)=%s", i.String(), got)
		}
	}
	got, err := ParseType("custom_5")
	if err != nil || got != CustomBase+5 {
		t.Fatalf("ParseType(custom_5)=%v,%v", got, err)
	}
	if !got.IsCustom() {
		t.Fatalf("expected custom type")
	}
	if _, err := ParseType("unobtainium"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}
