package component

import (
	"reflect"

	"github.com/nerrad567/instrument-core/internal/naming"
)

// tagKey is the struct tag consulted for name overrides. `dmi:"-"` hides a field.
const tagKey = "dmi"

// Group field names recognised on a component.
const (
	groupInputs  = "Inputs"
	groupOutputs = "Outputs"
	groupParts   = "Parts"
	groupState   = "State"
)

// Field is one exported field of an aggregate.
type Field struct {
	// GoName is the Go field name; it is the structural path segment.
	GoName string
	// Tag is the value of the dmi struct tag, if any.
	Tag string
	// Value is the addressable field value.
	Value reflect.Value
}

// Name returns the tag override, or the field name split into words.
func (f Field) Name() string {
	if f.Tag != "" {
		return f.Tag
	}
	return naming.Words(f.GoName)
}

// Ptr returns a pointer to the field as an interface value.
func (f Field) Ptr() any {
	return f.Value.Addr().Interface()
}

// Fields enumerates the exported fields of an addressable struct value in
// declaration order. Fields tagged `dmi:"-"` are skipped.
func Fields(v reflect.Value) []Field {
	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		fields = append(fields, Field{GoName: sf.Name, Tag: tag, Value: v.Field(i)})
	}
	return fields
}

// groupField returns the named group field of a component struct.
func groupField(v reflect.Value, name string) (reflect.StructField, reflect.Value, bool) {
	sf, ok := v.Type().FieldByName(name)
	if !ok || len(sf.Index) != 1 || !sf.IsExported() {
		return reflect.StructField{}, reflect.Value{}, false
	}
	return sf, v.Field(sf.Index[0]), true
}
