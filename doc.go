// Package brushgeom is a convex-solid geometry kernel: an expression
// language for parameterizing entity properties (package el), the
// vector/plane primitives the mesh is built on (package vecmath), and
// a half-edge convex polyhedron engine supporting incremental
// construction, clipping, boolean intersect/subtract, intersection
// queries and topology matching (package poly).
//
// # Package layout
//
//	vecmath — Vec3/Mat4/Plane/BBox/Ray primitives
//	el      — the expression language: values, parser, expression tree
//	poly    — convex polyhedra: construction, clip, CSG, matching
//
// # Building a shape
//
//	p := poly.NewPolyhedron[struct{}, struct{}]()
//	p.AddPoints([]vecmath.Vec3{
//		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
//		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
//	})
//	if err := p.ValidateComplete(); err != nil {
//		log.Fatal(err)
//	}
//
// # Evaluating an entity property expression
//
//	node, err := el.ParseStrict(`{{ classname == "light" -> 300, 0 }}`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	store := el.NewVariableStore(map[string]el.Value{"classname": el.NewString("light")})
//	result, err := node.Evaluate(store, nil)
package brushgeom
