package cli

import (
	"fmt"
	"io"
	"strconv"
)

// Printer writes primitive values to an io.Writer. The first write error is
// kept and later writes are skipped.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the values back to back.
func (p *Printer) Print(values ...any) {
	for _, v := range values {
		p.write(format(v))
	}
}

// Println writes the values separated by spaces, then a newline.
func (p *Printer) Println(values ...any) {
	for i, v := range values {
		if i > 0 {
			p.write(" ")
		}
		p.write(format(v))
	}
	p.write("\n")
}

// Printf writes a formatted string.
func (p *Printer) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
}

// Err returns the first write error.
func (p *Printer) Err() error { return p.err }

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// format renders one value the way an instrument console shows it.
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
