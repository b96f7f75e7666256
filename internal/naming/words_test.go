package naming

import "testing"

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Button", "Button"},
		{"LeftButton", "Left Button"},
		{"IMUSensor", "IMU Sensor"},
		{"IMU", "IMU"},
		{"Axis2X", "Axis2 X"},
		{"raw_adc", "raw adc"},
		{"wifi", "wifi"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Words(tt.input); got != tt.want {
			t.Errorf("Words(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWords_ThenKebab(t *testing.T) {
	if got := Convert(Words("RisingEdge"), Kebab); got != "rising-edge" {
		t.Errorf("got %q, want %q", got, "rising-edge")
	}
}
