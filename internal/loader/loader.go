package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"SiteViewer/internal/logger"
	"SiteViewer/internal/renderer"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for files no registered importer handles.
var ErrUnsupportedFormat = errors.New("unsupported asset format")

// Importer decodes an asset file into a mesh.
type Importer interface {
	Import(path string) (*renderer.Mesh, error)
}

// Registry dispatches on the lower-cased file extension.
type Registry map[string]Importer

func DefaultRegistry() Registry {
	return Registry{".obj": &OBJImporter{RecalculateNormals: false}}
}

func (r Registry) Import(path string) (*renderer.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	imp, ok := r[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}
	return imp.Import(path)
}

// OBJImporter loads Wavefront OBJ files with their MTL material library.
type OBJImporter struct {
	// RecalculateNormals ignores normals stored in the file. Normals are
	// always computed when the file has none.
	RecalculateNormals bool
}

func (imp *OBJImporter) Import(path string) (*renderer.Mesh, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	if _, err := os.Stat(mtlPath); err != nil {
		mtlPath = ""
	}

	dec, err := obj.Decode(path, mtlPath)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, w := range dec.Warnings {
		logger.Log.Warn("OBJ decoder warning", zap.String("file", path), zap.String("warning", w))
	}

	mesh, missingNormals := buildMesh(dec)
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh.SourcePath = path

	if imp.RecalculateNormals || missingNormals {
		mesh.Normals = RecalculateNormals(mesh.Vertices, mesh.Faces)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBoundingSphere()

	logger.Log.Info("Model imported",
		zap.String("file", path),
		zap.Int("objects", len(dec.Objects)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("materialGroups", len(mesh.MaterialGroups)),
		zap.Float32("radius", mesh.BoundingSphereRadius))
	return mesh, nil
}

// buildMesh expands every decoded face into unshared triangles so each
// corner can carry its own normal, and groups consecutive faces sharing a
// material. It reports whether any corner lacked a file normal.
func buildMesh(dec *obj.Decoder) (*renderer.Mesh, bool) {
	mesh := &renderer.Mesh{}
	materials := make(map[string]*renderer.Material)
	missingNormals := false
	currentMaterial := ""

	material := func(name string) *renderer.Material {
		if m, ok := materials[name]; ok {
			return m
		}
		m := renderer.DefaultMaterial
		if src, ok := dec.Materials[name]; ok && src != nil {
			m = &renderer.Material{
				Name:         name,
				DiffuseColor: [3]float32{src.Diffuse.R, src.Diffuse.G, src.Diffuse.B},
				Alpha:        src.Opacity,
			}
			// Some exporters omit "d"; treat zero opacity as opaque.
			if m.Alpha == 0 {
				m.Alpha = 1
			}
		} else if name != "" {
			logger.Log.Warn("Material not found, using default", zap.String("material", name))
		}
		materials[name] = m
		return m
	}

	corner := func(face *obj.Face, i int) {
		vi := face.Vertices[i]
		if vi < 0 || vi*3+2 >= len(dec.Vertices) {
			logger.Log.Error("Vertex index out of bounds", zap.Int("vertexIdx", vi), zap.Int("verticesLen", len(dec.Vertices)/3))
			mesh.Vertices = append(mesh.Vertices, 0, 0, 0)
		} else {
			mesh.Vertices = append(mesh.Vertices, dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2])
		}

		ni := -1
		if i < len(face.Normals) {
			ni = face.Normals[i]
		}
		if ni < 0 || ni*3+2 >= len(dec.Normals) {
			missingNormals = true
			mesh.Normals = append(mesh.Normals, 0, 1, 0)
		} else {
			mesh.Normals = append(mesh.Normals, dec.Normals[ni*3], dec.Normals[ni*3+1], dec.Normals[ni*3+2])
		}

		mesh.Faces = append(mesh.Faces, int32(len(mesh.Faces)))
	}

	for oi := range dec.Objects {
		for fi := range dec.Objects[oi].Faces {
			face := &dec.Objects[oi].Faces[fi]
			if len(face.Vertices) < 3 {
				continue
			}

			if len(mesh.MaterialGroups) == 0 || face.Material != currentMaterial {
				currentMaterial = face.Material
				mesh.MaterialGroups = append(mesh.MaterialGroups, renderer.MaterialGroup{
					Material:   material(face.Material),
					IndexStart: int32(len(mesh.Faces)),
				})
			}

			// Polygons are triangulated as a fan from the first corner.
			for i := 1; i+1 < len(face.Vertices); i++ {
				corner(face, 0)
				corner(face, i)
				corner(face, i+1)
			}

			group := &mesh.MaterialGroups[len(mesh.MaterialGroups)-1]
			group.IndexCount = int32(len(mesh.Faces)) - group.IndexStart
		}
	}

	return mesh, missingNormals
}

// RecalculateNormals averages face normals into per-vertex normals.
func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil
	}

	var normals = make([]float32, len(vertices))

	// Calculate normals for each face
	for i := 0; i+2 < len(faces); i += 3 {
		idx0 := faces[i] * 3
		idx1 := faces[i+1] * 3
		idx2 := faces[i+2] * 3

		// Ensure indices are within the bounds of the vertices array
		if idx0+2 >= int32(len(vertices)) || idx1+2 >= int32(len(vertices)) || idx2+2 >= int32(len(vertices)) {
			logger.Log.Warn("Face index out of bounds", zap.Int32("idx0", idx0), zap.Int32("idx1", idx1), zap.Int32("idx2", idx2))
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if normal.Len() == 0 {
			continue // degenerate triangle
		}
		normal = normal.Normalize()

		for j := int32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	// Normalize the normals
	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		} else {
			n = n.Normalize()
		}
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}

	return normals
}
