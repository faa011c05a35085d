package models

import "testing"

func TestParseAxis(t *testing.T) {
	cases := map[string]Axis{
		"row":    AxisRow,
		"R":      AxisRow,
		"0":      AxisRow,
		"column": AxisColumn,
		"A":      AxisColumn,
		" slice": AxisSlice,
		"k":      AxisSlice,
	}
	for name, want := range cases {
		got, err := ParseAxis(name)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q): Expected %s, got %s (%v)", name, want, got, err)
		}
	}
	if _, err := ParseAxis("x"); err == nil {
		t.Error("Expected error for unknown axis, got nil")
	}
}

// TestGridSlicing checks every slice pixel maps to a distinct voxel on the right plane
func TestGridSlicing(t *testing.T) {
	g := Grid{Width: 4, Height: 3, Depth: 2}
	for _, axis := range []Axis{AxisRow, AxisColumn, AxisSlice} {
		seen := make(map[int]bool)
		w, h := g.SliceDims(axis)
		for pos := 0; pos < g.Count(axis); pos++ {
			for v := 0; v < h; v++ {
				for u := 0; u < w; u++ {
					x, y, z := g.VoxelAt(axis, pos, u, v)
					if !g.Contains(x, y, z) {
						t.Fatalf("%s: pixel (%d, %d) of slice %d maps outside the grid", axis, u, v, pos)
					}
					if [3]int{x, y, z}[axis] != pos {
						t.Fatalf("%s: pixel (%d, %d) left slice %d", axis, u, v, pos)
					}
					seen[g.Index(x, y, z)] = true
				}
			}
		}
		if len(seen) != g.Len() {
			t.Errorf("%s: Expected %d distinct voxels, got %d", axis, g.Len(), len(seen))
		}
	}
}

func TestSpacing(t *testing.T) {
	s := Spacing{X: 0.5, Y: 0.75, Z: 2}
	if s.Isotropic() {
		t.Error("Expected anisotropic spacing")
	}
	if d, h, w := s.PixelDims(AxisColumn); d != 0.75 || h != 2 || w != 0.5 {
		t.Errorf("Expected column pixel dims (0.75, 2, 0.5), got (%g, %g, %g)", d, h, w)
	}
	if (Spacing{X: 1, Y: 0, Z: 1}).Valid() {
		t.Error("Expected zero spacing to be invalid")
	}
}
