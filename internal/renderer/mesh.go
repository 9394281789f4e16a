package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:         "default",
	DiffuseColor: [3]float32{1.0, 1.0, 1.0}, // White color
	Alpha:        1.0,
}

type Material struct {
	DiffuseColor [3]float32 // Flat color used for every face in the group
	Alpha        float32    // Transparency (0.0 = transparent, 1.0 = opaque)
	Name         string
}

// MaterialGroup represents a run of triangles sharing one material
type MaterialGroup struct {
	Material   *Material // Material for this group
	IndexStart int32     // Starting index in Faces
	IndexCount int32     // Number of indices for this group
}

// Mesh is imported triangle geometry ready to be uploaded to a Context.
type Mesh struct {
	Name                 string
	SourcePath           string          // File the mesh was imported from
	Vertices             []float32       // xyz per vertex
	Normals              []float32       // xyz per vertex, same length as Vertices
	Faces                []int32         // Triangle list indexing Vertices
	MaterialGroups       []MaterialGroup // Cover Faces in order
	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int32) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// Normal returns the normal of vertex i, or +Y when normals are missing.
func (m *Mesh) Normal(i int32) mgl32.Vec3 {
	if int(i*3+2) >= len(m.Normals) {
		return mgl32.Vec3{0, 1, 0}
	}
	return mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

// Validate checks that faces form whole triangles within range and that the
// material groups tile the face list.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh %q: vertex data length %d is not a multiple of 3", m.Name, len(m.Vertices))
	}
	if len(m.Faces)%3 != 0 {
		return fmt.Errorf("mesh %q: face index count %d is not a multiple of 3", m.Name, len(m.Faces))
	}
	n := int32(m.VertexCount())
	for i, idx := range m.Faces {
		if idx < 0 || idx >= n {
			return fmt.Errorf("mesh %q: face index %d at %d out of range [0,%d)", m.Name, idx, i, n)
		}
	}
	var next int32
	for i, g := range m.MaterialGroups {
		if g.IndexStart != next || g.IndexCount < 0 {
			return fmt.Errorf("mesh %q: material group %d starts at %d, want %d", m.Name, i, g.IndexStart, next)
		}
		next += g.IndexCount
	}
	if len(m.MaterialGroups) > 0 && int(next) != len(m.Faces) {
		return fmt.Errorf("mesh %q: material groups cover %d of %d indices", m.Name, next, len(m.Faces))
	}
	return nil
}

// Groups returns the material groups, or a single default group covering
// every face when none were recorded.
func (m *Mesh) Groups() []MaterialGroup {
	if len(m.MaterialGroups) > 0 {
		return m.MaterialGroups
	}
	return []MaterialGroup{{Material: DefaultMaterial, IndexStart: 0, IndexCount: int32(len(m.Faces))}}
}

func (m *Mesh) CalculateBoundingSphere() {
	numVertices := m.VertexCount()
	if numVertices == 0 {
		m.BoundingSphereCenter = mgl32.Vec3{}
		m.BoundingSphereRadius = 0
		return
	}

	var center mgl32.Vec3
	for i := 0; i < numVertices; i++ {
		center = center.Add(m.Vertex(int32(i)))
	}
	center = center.Mul(1.0 / float32(numVertices))

	var maxDistanceSq float32
	for i := 0; i < numVertices; i++ {
		distanceSq := m.Vertex(int32(i)).Sub(center).LenSqr()
		if distanceSq > maxDistanceSq {
			maxDistanceSq = distanceSq
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}
