package endpoint

import (
	"fmt"
	"reflect"
	"strconv"
)

// parseText converts s into a T. Booleans, integers, unsigned integers,
// floats and strings are supported, including named types over them.
func parseText[T any](s string) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return out, parseError(s, err)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 0, rv.Type().Bits())
		if err != nil {
			return out, parseError(s, err)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 0, rv.Type().Bits())
		if err != nil {
			return out, parseError(s, err)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return out, parseError(s, err)
		}
		rv.SetFloat(f)
	default:
		return out, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
	return out, nil
}

func parseError(s string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrParse, s, err)
}
