package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"separated on X", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on Y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on Z", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}, false},
		{"partial overlap", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.2, 0.2, 0.2}, Max: mgl64.Vec3{0.8, 0.8, 0.8}}, true},
		{"touching face", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"touching corner", AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Test symmetry
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps() symmetric = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBExpand(t *testing.T) {
	bounds := EmptyAABB()
	if bounds.IsValid() {
		t.Fatal("EmptyAABB() is valid")
	}

	bounds.Expand(mgl64.Vec3{1, -2, 3})
	if bounds.Min != (mgl64.Vec3{1, -2, 3}) || bounds.Max != (mgl64.Vec3{1, -2, 3}) {
		t.Errorf("single point bounds = %v", bounds)
	}

	bounds.ExpandAABB(AABB{Min: mgl64.Vec3{-1, 0, 0}, Max: mgl64.Vec3{0, 5, 1}})
	if bounds.Min != (mgl64.Vec3{-1, -2, 0}) || bounds.Max != (mgl64.Vec3{1, 5, 3}) {
		t.Errorf("bounds = %v", bounds)
	}
	if !bounds.IsValid() {
		t.Error("expanded bounds are not valid")
	}
	if bounds.Size() != (mgl64.Vec3{2, 7, 3}) || bounds.Center() != (mgl64.Vec3{0, 1.5, 1.5}) {
		t.Errorf("Size() = %v, Center() = %v", bounds.Size(), bounds.Center())
	}
}

func TestAABBCorners(t *testing.T) {
	bounds := AABB{Min: mgl64.Vec3{-1, -2, -3}, Max: mgl64.Vec3{1, 2, 3}}

	seen := make(map[mgl64.Vec3]bool)
	for _, corner := range bounds.Corners() {
		for axis := 0; axis < 3; axis++ {
			if corner[axis] != bounds.Min[axis] && corner[axis] != bounds.Max[axis] {
				t.Errorf("corner %v is not on the box", corner)
			}
		}
		seen[corner] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct corners, want 8", len(seen))
	}
}

func TestAABBTransformed(t *testing.T) {
	bounds := AABB{Min: mgl64.Vec3{-2, -1, -1}, Max: mgl64.Vec3{2, 1, 1}}

	transform := Transform{
		Position: mgl64.Vec3{10, 0, 0},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	}
	got := bounds.Transformed(transform)

	if !vec3Equal(got.Min, mgl64.Vec3{9, -2, -1}, 1e-9) || !vec3Equal(got.Max, mgl64.Vec3{11, 2, 1}, 1e-9) {
		t.Errorf("Transformed() = %v", got)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	bounds := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	if !bounds.ContainsPoint(mgl64.Vec3{0.5, 0.5, 0.5}) || !bounds.ContainsPoint(mgl64.Vec3{1, 1, 1}) {
		t.Error("ContainsPoint() rejected an inner point")
	}
	if bounds.ContainsPoint(mgl64.Vec3{1.1, 0.5, 0.5}) {
		t.Error("ContainsPoint() accepted an outer point")
	}
}

func TestNormalizeOrZero(t *testing.T) {
	if got := NormalizeOrZero(mgl64.Vec3{}); got != (mgl64.Vec3{}) {
		t.Errorf("NormalizeOrZero(zero) = %v", got)
	}
	if got := NormalizeOrZero(mgl64.Vec3{0, 3, 4}); !vec3Equal(got, mgl64.Vec3{0, 0.6, 0.8}, 1e-12) {
		t.Errorf("NormalizeOrZero() = %v, want [0 0.6 0.8]", got)
	}
}
