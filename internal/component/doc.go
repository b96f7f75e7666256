// Package component discovers the structure of a component tree.
//
// Components are ordinary Go structs. Nothing has to embed a base type or
// implement a registration interface; the package finds what a component
// offers by looking at it:
//
//   - Group fields named Inputs, Outputs, Parts and State.
//   - Lifecycle methods on the pointer receiver: Init() error (or Init()),
//     ExternalSources(), Main() and ExternalDestinations().
//   - Endpoint capabilities of every Inputs/Outputs field, checked by method
//     presence (Named, Ranged, PersistentValue, ClearableFlag, OccasionalValue,
//     Bang, Settable).
//
// # Example
//
//	type Button struct {
//	    Outputs struct {
//	        Pressed endpoint.Flag
//	    }
//	    pin Pin
//	}
//
//	func (b *Button) ExternalSources() { ... }
//
//	type Instrument struct {
//	    Button Button
//	    Motion motion.Accelerometer
//	}
//
//	tree, err := component.Build(&Instrument{...})
//
// # Tree
//
// Build walks the root once and returns a Tree: an arena of Nodes and
// Endpoints addressed by index, in declaration order with every parent
// before its parts. Lifecycle methods are bound to func values during Build,
// so walking the tree afterwards involves no reflection.
//
// Plain structs whose fields are components ("assemblies") nest sub-trees.
// Pointer-typed nodes are rejected: the root value owns the whole tree and
// nothing in it is shared.
//
// # Naming
//
// A node's name comes from its `dmi:"..."` struct tag or, without one, from
// its field name split into words ("LeftButton" becomes "Left Button"). An
// endpoint prefers the name it was declared with, then the tag, then the
// field name. Sibling names must be unique.
//
// Build never mutates the walked value.
package component
