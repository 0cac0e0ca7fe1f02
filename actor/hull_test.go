package actor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func cubeCorners(half float64) []mgl64.Vec3 {
	corners := AABB{
		Min: mgl64.Vec3{-half, -half, -half},
		Max: mgl64.Vec3{half, half, half},
	}.Corners()
	return corners[:]
}

// checkClosedManifold verifies that every edge is shared by exactly two
// triangles, walked in opposite directions, and that every face points outward
func checkClosedManifold(t *testing.T, vertices []mgl64.Vec3, triangles []Triangle) {
	t.Helper()

	directed := make(map[edge]int)
	for _, tri := range triangles {
		for _, e := range tri.edges() {
			directed[e]++
		}
	}

	for e, count := range directed {
		if count != 1 {
			t.Errorf("directed edge %v used %d times", e, count)
		}
		if directed[edge{e.b, e.a}] != 1 {
			t.Errorf("edge %v has no opposite half edge", e)
		}
	}

	// Euler characteristic of a closed genus 0 surface
	if v, e, f := len(vertices), len(directed)/2, len(triangles); v-e+f != 2 {
		t.Errorf("V - E + F = %d - %d + %d, want 2", v, e, f)
	}

	var centroid mgl64.Vec3
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1.0 / float64(len(vertices)))

	for _, tri := range triangles {
		a, b, c := vertices[tri.A], vertices[tri.B], vertices[tri.C]
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Dot(centroid.Sub(a)) >= 0 {
			t.Errorf("triangle %v faces inward", tri)
		}
	}
}

func TestBuildConvexHull_BoxCorners(t *testing.T) {
	vertices, triangles := BuildConvexHull(cubeCorners(1))

	if len(vertices) != 8 {
		t.Fatalf("len(vertices) = %d, want 8", len(vertices))
	}
	if len(triangles) != 12 {
		t.Errorf("len(triangles) = %d, want 12", len(triangles))
	}

	checkClosedManifold(t, vertices, triangles)
}

func TestBuildConvexHull_ExcludesInteriorPoints(t *testing.T) {
	points := []mgl64.Vec3{
		{0, 0, 0},
		{0.5, -0.2, 0.3},
		{0.9, 0.9, 0.9},
		{-0.99, 0.1, -0.5},
	}
	points = append(points, cubeCorners(1)...)
	points = append(points, mgl64.Vec3{0.1, 0.2, -0.3}, mgl64.Vec3{-0.5, -0.5, 0.99})

	vertices, triangles := BuildConvexHull(points)

	if len(vertices) != 8 {
		t.Fatalf("len(vertices) = %d, want 8", len(vertices))
	}
	for _, v := range vertices {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(v[axis]) != 1 {
				t.Errorf("vertex %v is not a cube corner", v)
			}
		}
	}

	checkClosedManifold(t, vertices, triangles)
}

func cubeLattice(half float64, steps int) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, 0, (steps+1)*(steps+1)*(steps+1))
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			for k := 0; k <= steps; k++ {
				points = append(points, mgl64.Vec3{
					-half + 2*half*float64(i)/float64(steps),
					-half + 2*half*float64(j)/float64(steps),
					-half + 2*half*float64(k)/float64(steps),
				})
			}
		}
	}
	return points
}

func TestBuildConvexHull_DropsFaceAndEdgePoints(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
	}{
		{"3x3x3 lattice", cubeLattice(1, 2)},
		{"5x5x5 lattice", cubeLattice(1, 4)},
		{"corners with edge midpoints", append(cubeCorners(1),
			mgl64.Vec3{0, -1, -1}, mgl64.Vec3{0, 1, 1}, mgl64.Vec3{-1, 0, 1}, mgl64.Vec3{1, 1, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, triangles := BuildConvexHull(tt.points)

			if len(vertices) != 8 {
				t.Fatalf("len(vertices) = %d, want 8", len(vertices))
			}
			if len(triangles) != 12 {
				t.Errorf("len(triangles) = %d, want 12", len(triangles))
			}
			for _, v := range vertices {
				if math.Abs(v.X()) != 1 || math.Abs(v.Y()) != 1 || math.Abs(v.Z()) != 1 {
					t.Errorf("vertex %v is not a cube corner", v)
				}
			}
			checkClosedManifold(t, vertices, triangles)
		})
	}
}

func TestBuildConvexHull_SuppressesNearDuplicates(t *testing.T) {
	points := append(cubeCorners(1), mgl64.Vec3{1.001, 1, 1})

	vertices, triangles := BuildConvexHull(points)

	if len(vertices) != 8 {
		t.Errorf("len(vertices) = %d, want 8", len(vertices))
	}
	checkClosedManifold(t, vertices, triangles)
}

func TestBuildConvexHull_PointCloud(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	points := make([]mgl64.Vec3, 0, 300)
	for len(points) < 300 {
		p := mgl64.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		if p.Len() < 0.1 {
			continue
		}
		// Half on the unit sphere, half inside it
		if len(points)%2 == 0 {
			p = p.Normalize()
		} else {
			p = p.Normalize().Mul(rng.Float64() * 0.5)
		}
		points = append(points, p)
	}

	vertices, triangles := BuildConvexHull(points)
	if len(triangles) == 0 {
		t.Fatal("BuildConvexHull() returned an empty hull")
	}

	checkClosedManifold(t, vertices, triangles)

	for _, v := range vertices {
		if !floatEqual(v.Len(), 1.0, 1e-9) {
			t.Errorf("interior point %v kept as a hull vertex", v)
		}
	}

	// Points dropped as near duplicates may stick out by up to the threshold
	for _, p := range points {
		for _, tri := range triangles {
			if d := distanceFromTriangle(vertices[tri.A], vertices[tri.B], vertices[tri.C], p); d > HullTooCloseThreshold+1e-9 {
				t.Fatalf("point %v is %v in front of triangle %v", p, d, tri)
			}
		}
	}
}

func TestBuildConvexHull_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
	}{
		{"empty", nil},
		{"three points", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		{"identical", []mgl64.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {1, 1, 1}}},
		{"collinear", []mgl64.Vec3{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {-1, -1, -1}}},
		{"coplanar", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0.5, 0.2, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, triangles := BuildConvexHull(tt.points)
			if len(vertices) != 0 || len(triangles) != 0 {
				t.Errorf("BuildConvexHull() = %d vertices, %d triangles, want empty", len(vertices), len(triangles))
			}
		})
	}
}
