package naming

import "strings"

// Words splits a Go identifier into space-separated words so that structural
// field names can be converted like any other name.
//
//	Words("LeftButton") // "Left Button"
//	Words("IMUSensor")  // "IMU Sensor"
//	Words("raw_adc")    // "raw adc"
func Words(ident string) string {
	var b strings.Builder
	b.Grow(len(ident) + 4)
	for i := 0; i < len(ident); i++ {
		c := ident[i]
		if c == '_' {
			b.WriteByte(' ')
			continue
		}
		if i > 0 && isUpper(c) {
			prev := ident[i-1]
			nextLower := i+1 < len(ident) && isLower(ident[i+1])
			if isLower(prev) || isDigit(prev) || (isUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
