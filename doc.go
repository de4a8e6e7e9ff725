// Package solid provides a pure-Go kernel for solid modeling with
// implicit functions.
//
// # Overview
//
// solid represents shapes as scalar functions of 3D space built from an
// immutable expression tree: a point is inside the shape where the
// function is negative, outside where it is positive, and on the surface
// where it is zero. A dual-contouring mesher extracts a boundary
// representation (vertices and triangles) by adaptively subdividing a
// region, using interval arithmetic to skip space that provably contains
// no surface.
//
// # Quick Start
//
//	import "github.com/gogpu/solid"
//
//	// f(x,y,z) = sqrt(x² + y² + z²) - 0.5
//	shape := solid.Sphere(0.5)
//
//	region := solid.NewRegion3(solid.V3(-1, -1, -1), solid.V3(1, 1, 1))
//	mesh, err := solid.Render(shape, region)
//
// # Oracles
//
// Oracles are the extension point for shapes that cannot be expressed as
// tree arithmetic. An OracleClause is attached to a tree node and
// manufactures Oracle instances on demand; each Oracle answers the five
// evaluation modes the kernel needs (interval bound, point value,
// ambiguity mask, gradient, feature set). A faithful oracle is
// transparent: substituting it for the subtree it models does not change
// the rendered mesh. See oracle.go and the AxisOracle reference
// implementation.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Tree, Region2/Region3, Interval, Oracle, Mesh, Contour
//   - Evaluation: Evaluator with point, interval, derivative, ambiguity
//     and feature modes
//   - Meshing: interval-pruned octree with QEF vertex placement
//   - Internal: parallel (worker pool for cell evaluation)
//
// # Coordinate System
//
// Right-handed coordinates with X, Y, Z as the three axes. Mesh triangle
// winding is counter-clockwise when viewed from outside the shape.
//
// # Determinism
//
// For a given tree and region, Render produces the same vertex and face
// sequences regardless of the worker count. Subdivision and stitching
// follow a canonical traversal, never thread completion order.
package solid

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
