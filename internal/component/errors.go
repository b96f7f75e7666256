package component

import "errors"

// Domain errors for the component package.
var (
	// ErrInvalidRoot is returned when Build is given anything other than a
	// non-nil pointer to a struct.
	ErrInvalidRoot = errors.New("component: root must be a non-nil pointer to a struct")

	// ErrAliasedNode is returned when a node is held by pointer.
	ErrAliasedNode = errors.New("component: nodes must be held by value")

	// ErrInvalidGroup is returned when Inputs, Outputs, Parts or State is not a struct.
	ErrInvalidGroup = errors.New("component: group must be a struct")

	// ErrInvalidPart is returned when a Parts field is neither a component
	// nor a fixed-size array of components.
	ErrInvalidPart = errors.New("component: part must be a struct or an array of structs")

	// ErrNotEndpoint is returned when an Inputs/Outputs field has no endpoint capability.
	ErrNotEndpoint = errors.New("component: field is not an endpoint")

	// ErrStrayEndpoint is returned when an endpoint is declared outside an
	// Inputs or Outputs group.
	ErrStrayEndpoint = errors.New("component: endpoint outside an inputs or outputs group")

	// ErrDuplicatePath is returned when two siblings resolve to the same name.
	ErrDuplicatePath = errors.New("component: duplicate structural path")

	// ErrInvalidRange is returned when a ranged endpoint declares init outside [min, max].
	ErrInvalidRange = errors.New("component: ranged endpoint init outside [min, max]")
)
