package endpoint

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vec3 is a three-component sample.
type Vec3 [3]float32

// X returns the first component.
func (v Vec3) X() float32 { return v[0] }

// Y returns the second component.
func (v Vec3) Y() float32 { return v[1] }

// Z returns the third component.
func (v Vec3) Z() float32 { return v[2] }

// Magnitude returns the Euclidean length of v.
func (v Vec3) Magnitude() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// String formats v as "x,y,z".
func (v Vec3) String() string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

// ParseVec3 parses "x,y,z" (commas and/or spaces as separators).
func ParseVec3(s string) (Vec3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != len(Vec3{}) {
		return Vec3{}, fmt.Errorf("%w: %q: want 3 components, got %d", ErrParse, s, len(fields))
	}
	var v Vec3
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Vec3{}, parseError(s, err)
		}
		v[i] = float32(n)
	}
	return v, nil
}

// Vector is an occasional three-component endpoint.
//
// Only whole-value replacement (Set) marks it fresh. Component writes
// (SetAt, SetX, SetY, SetZ) update the payload silently.
type Vector struct {
	Occasional[Vec3]
}

// NewVector declares a vector endpoint. It starts cleared.
func NewVector(name, description string) Vector {
	return Vector{Occasional: NewOccasional[Vec3](name, description)}
}

// X returns the first component.
func (e *Vector) X() float32 { return e.v[0] }

// Y returns the second component.
func (e *Vector) Y() float32 { return e.v[1] }

// Z returns the third component.
func (e *Vector) Z() float32 { return e.v[2] }

// At returns component i. It panics if i is out of range.
func (e *Vector) At(i int) float32 { return e.v[i] }

// SetAt writes component i without marking the vector fresh.
func (e *Vector) SetAt(i int, v float32) { e.v[i] = v }

// SetX writes the first component without marking the vector fresh.
func (e *Vector) SetX(v float32) { e.v[0] = v }

// SetY writes the second component without marking the vector fresh.
func (e *Vector) SetY(v float32) { e.v[1] = v }

// SetZ writes the third component without marking the vector fresh.
func (e *Vector) SetZ(v float32) { e.v[2] = v }

// SetText parses "x,y,z" and sets the whole vector.
func (e *Vector) SetText(s string) error {
	v, err := ParseVec3(s)
	if err != nil {
		return err
	}
	e.Set(v)
	return nil
}
