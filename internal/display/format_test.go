package display

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"bytes", 512, "512 B"},
		{"kibibytes", 2048, "2.0 KiB"},
		{"mebibytes", 50 * 1024 * 1024, "50.0 MiB"},
		{"gibibytes", 3 * 1024 * 1024 * 1024, "3.0 GiB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.in); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	if got := FormatBitrateLabel(800); got != "800 kbps" {
		t.Errorf("FormatBitrateLabel(800) = %q", got)
	}
	if got := FormatBitrateLabel(4500); got != "4.5 Mbps" {
		t.Errorf("FormatBitrateLabel(4500) = %q", got)
	}
}
