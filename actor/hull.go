package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HullTooCloseThreshold discards candidate points within 1 cm of an existing hull vertex
const HullTooCloseThreshold = 0.01

// hullDegenerateEpsilon is the smallest extent accepted when seeding the tetrahedron
const hullDegenerateEpsilon = 1e-9

// hullFlatEpsilon is the smallest triple product of unit face normals that marks a corner
const hullFlatEpsilon = 1e-9

// Triangle indexes three hull vertices
// Vertices are wound counter-clockwise when seen from outside the solid
type Triangle struct {
	A, B, C int
}

type edge struct {
	a, b int
}

// matches compares edges regardless of direction
func (e edge) matches(other edge) bool {
	return (e.a == other.a && e.b == other.b) || (e.a == other.b && e.b == other.a)
}

func (t Triangle) edges() [3]edge {
	return [3]edge{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// hullMesh is the working triangle mesh, only alive while a hull is being built
type hullMesh struct {
	vertices  []mgl64.Vec3
	triangles []Triangle
}

// BuildConvexHull computes the convex hull of an unordered point cloud with QuickHull
// It returns empty slices when fewer than 4 points are given, or when all points
// are collinear or coplanar
func BuildConvexHull(points []mgl64.Vec3) ([]mgl64.Vec3, []Triangle) {
	if len(points) < 4 {
		return nil, nil
	}

	mesh, ok := buildTetrahedron(points)
	if !ok {
		return nil, nil
	}

	mesh.expand(points)
	mesh.removeUnreferencedVertices()

	// Points picked up on a face or an edge of a partial hull are not corners of the final one
	if corners := mesh.cornerVertices(); len(corners) < len(mesh.vertices) {
		if rebuilt, ok := buildTetrahedron(corners); ok {
			rebuilt.expand(corners)
			rebuilt.removeUnreferencedVertices()
			mesh = rebuilt
		}
	}

	return mesh.vertices, mesh.triangles
}

func furthestInDirection(points []mgl64.Vec3, direction mgl64.Vec3) int {
	best := 0
	bestDist := direction.Dot(points[0])
	for i := 1; i < len(points); i++ {
		if dist := direction.Dot(points[i]); dist > bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

func distanceFromLine(a, b, point mgl64.Vec3) float64 {
	ab := NormalizeOrZero(b.Sub(a))
	ray := point.Sub(a)
	projection := ab.Mul(ray.Dot(ab))
	return ray.Sub(projection).Len()
}

// distanceFromTriangle is the signed distance from the plane of abc, positive in front
func distanceFromTriangle(a, b, c, point mgl64.Vec3) float64 {
	normal := NormalizeOrZero(b.Sub(a).Cross(c.Sub(a)))
	return point.Sub(a).Dot(normal)
}

// inFront tests the side of the plane of abc without normalizing, so exact inputs stay exact
func inFront(a, b, c, point mgl64.Vec3) bool {
	normal := b.Sub(a).Cross(c.Sub(a))
	return point.Sub(a).Dot(normal) > 0
}

func buildTetrahedron(points []mgl64.Vec3) (*hullMesh, bool) {
	var p [4]mgl64.Vec3

	p[0] = points[furthestInDirection(points, mgl64.Vec3{1, 0, 0})]
	p[1] = points[furthestInDirection(points, p[0].Mul(-1))]
	if p[1].Sub(p[0]).Len() < hullDegenerateEpsilon {
		// p[0] may sit at the origin, fall back to the opposite extreme along X
		p[1] = points[furthestInDirection(points, mgl64.Vec3{-1, 0, 0})]
		if p[1].Sub(p[0]).Len() < hullDegenerateEpsilon {
			return nil, false
		}
	}

	bestDist := -1.0
	for _, point := range points {
		if dist := distanceFromLine(p[0], p[1], point); dist > bestDist {
			bestDist = dist
			p[2] = point
		}
	}
	if bestDist < hullDegenerateEpsilon {
		return nil, false
	}

	bestDist = -1.0
	for _, point := range points {
		if dist := math.Abs(distanceFromTriangle(p[0], p[1], p[2], point)); dist > bestDist {
			bestDist = dist
			p[3] = point
		}
	}
	if bestDist < hullDegenerateEpsilon {
		return nil, false
	}

	// The fourth point must be behind the first face for all faces to point outward
	if distanceFromTriangle(p[0], p[1], p[2], p[3]) > 0 {
		p[0], p[1] = p[1], p[0]
	}

	return &hullMesh{
		vertices: []mgl64.Vec3{p[0], p[1], p[2], p[3]},
		triangles: []Triangle{
			{0, 1, 2},
			{0, 2, 3},
			{2, 1, 3},
			{1, 0, 3},
		},
	}, true
}

// isExternal reports whether point is strictly in front of at least one face
func (m *hullMesh) isExternal(point mgl64.Vec3) bool {
	for _, tri := range m.triangles {
		if inFront(m.vertices[tri.A], m.vertices[tri.B], m.vertices[tri.C], point) {
			return true
		}
	}
	return false
}

func (m *hullMesh) isTooClose(point mgl64.Vec3) bool {
	for _, vertex := range m.vertices {
		if vertex.Sub(point).LenSqr() < HullTooCloseThreshold*HullTooCloseThreshold {
			return true
		}
	}
	return false
}

// pruneCandidates drops interior, coplanar and near-duplicate points
func (m *hullMesh) pruneCandidates(candidates []mgl64.Vec3) []mgl64.Vec3 {
	n := 0
	for _, point := range candidates {
		if !m.isExternal(point) || m.isTooClose(point) {
			continue
		}
		candidates[n] = point
		n++
	}
	return candidates[:n]
}

func (m *hullMesh) expand(points []mgl64.Vec3) {
	external := make([]mgl64.Vec3, len(points))
	copy(external, points)
	external = m.pruneCandidates(external)

	for len(external) > 0 {
		// Any remaining candidate lies outside the current hull, the first one is good enough
		point := external[0]
		external = external[1:]

		m.addPoint(point)
		external = m.pruneCandidates(external)
	}
}

// addPoint removes every face visible from point and stitches the horizon to it
func (m *hullMesh) addPoint(point mgl64.Vec3) {
	facing := make([]bool, len(m.triangles))
	facingCount := 0
	for i, tri := range m.triangles {
		if inFront(m.vertices[tri.A], m.vertices[tri.B], m.vertices[tri.C], point) {
			facing[i] = true
			facingCount++
		}
	}
	if facingCount == 0 {
		return
	}

	// Horizon: edges of the facing set that no other facing triangle shares
	var horizon []edge
	for i, tri := range m.triangles {
		if !facing[i] {
			continue
		}
		for _, e := range tri.edges() {
			if m.isEdgeUnique(facing, i, e) {
				horizon = append(horizon, e)
			}
		}
	}

	n := 0
	for i, tri := range m.triangles {
		if facing[i] {
			continue
		}
		m.triangles[n] = tri
		n++
	}
	m.triangles = m.triangles[:n]

	m.vertices = append(m.vertices, point)
	newIndex := len(m.vertices) - 1

	for _, e := range horizon {
		m.triangles = append(m.triangles, Triangle{e.a, e.b, newIndex})
	}
}

func (m *hullMesh) isEdgeUnique(facing []bool, ignore int, e edge) bool {
	for i, tri := range m.triangles {
		if !facing[i] || i == ignore {
			continue
		}
		for _, other := range tri.edges() {
			if e.matches(other) {
				return false
			}
		}
	}
	return true
}

// cornerVertices returns the vertices whose adjacent faces span three independent planes
// A vertex inside a flat face touches one plane, a vertex inside a straight edge touches two
func (m *hullMesh) cornerVertices() []mgl64.Vec3 {
	normals := make([][]mgl64.Vec3, len(m.vertices))
	for _, tri := range m.triangles {
		a, b, c := m.vertices[tri.A], m.vertices[tri.B], m.vertices[tri.C]
		normal := NormalizeOrZero(b.Sub(a).Cross(c.Sub(a)))
		if normal == (mgl64.Vec3{}) {
			continue
		}
		normals[tri.A] = append(normals[tri.A], normal)
		normals[tri.B] = append(normals[tri.B], normal)
		normals[tri.C] = append(normals[tri.C], normal)
	}

	corners := make([]mgl64.Vec3, 0, len(m.vertices))
	for i, vertex := range m.vertices {
		if spansSpace(normals[i]) {
			corners = append(corners, vertex)
		}
	}
	return corners
}

func spansSpace(normals []mgl64.Vec3) bool {
	for i := 0; i < len(normals); i++ {
		for j := i + 1; j < len(normals); j++ {
			cross := normals[i].Cross(normals[j])
			if cross.LenSqr() < hullFlatEpsilon*hullFlatEpsilon {
				continue
			}
			for k := j + 1; k < len(normals); k++ {
				if math.Abs(cross.Dot(normals[k])) > hullFlatEpsilon {
					return true
				}
			}
		}
	}
	return false
}

// removeUnreferencedVertices compacts the vertex list in a single pass
func (m *hullMesh) removeUnreferencedVertices() {
	used := make([]bool, len(m.vertices))
	for _, tri := range m.triangles {
		used[tri.A] = true
		used[tri.B] = true
		used[tri.C] = true
	}

	remap := make([]int, len(m.vertices))
	vertices := make([]mgl64.Vec3, 0, len(m.vertices))
	for i, vertex := range m.vertices {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(vertices)
		vertices = append(vertices, vertex)
	}

	for i, tri := range m.triangles {
		m.triangles[i] = Triangle{remap[tri.A], remap[tri.B], remap[tri.C]}
	}
	m.vertices = vertices
}
