package solid

// Mesh is the boundary representation produced by Render: an ordered
// sequence of vertex positions and an ordered sequence of triangles
// ("branes") referencing vertex indices.
//
// Vertex and face order is deterministic for a given tree and region:
// it follows the canonical octree traversal, never worker scheduling.
// Consumers (renderers, exporters) read the mesh purely in memory; no
// file format is implied.
type Mesh struct {
	Verts  []Vec3
	Branes [][3]int
}

// Empty returns true if the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return len(m.Verts) == 0 && len(m.Branes) == 0
}

// Equal reports whether two meshes are exactly identical: same vertex
// values, same face indices, same counts, same order. This exactness is
// the invariant the oracle-transparency contract is tested against.
func (m *Mesh) Equal(other *Mesh) bool {
	if len(m.Verts) != len(other.Verts) || len(m.Branes) != len(other.Branes) {
		return false
	}
	for i, v := range m.Verts {
		if v != other.Verts[i] {
			return false
		}
	}
	for i, b := range m.Branes {
		if b != other.Branes[i] {
			return false
		}
	}
	return true
}

// Contour is the 2D boundary representation produced by RenderContour:
// vertex positions in the slice plane and line segments referencing
// vertex indices. Ordering guarantees match Mesh.
type Contour struct {
	Verts    []Vec2
	Segments [][2]int
}

// Empty returns true if the contour has no geometry.
func (c *Contour) Empty() bool {
	return len(c.Verts) == 0 && len(c.Segments) == 0
}

// Equal reports whether two contours are exactly identical in content,
// count and order.
func (c *Contour) Equal(other *Contour) bool {
	if len(c.Verts) != len(other.Verts) || len(c.Segments) != len(other.Segments) {
		return false
	}
	for i, v := range c.Verts {
		if v != other.Verts[i] {
			return false
		}
	}
	for i, s := range c.Segments {
		if s != other.Segments[i] {
			return false
		}
	}
	return true
}
