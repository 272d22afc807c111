package formatting_test

import (
	"testing"

	"github.com/JaimeStill/gallery/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"kilobytes", "1KB", 1024, false},
		{"upload limit", "10MB", 10 << 20, false},
		{"lowercase unit", "10mb", 10 << 20, false},
		{"with space", "5 MB", 5 << 20, false},
		{"surrounding whitespace", "  2MB ", 2 << 20, false},
		{"fractional", "1.5KB", 1536, false},
		{"iec unit", "2MiB", 2 << 20, false},
		{"prefix only", "4k", 4096, false},
		{"explicit bytes", "512 B", 512, false},
		{"overflow", "9000000EB", 0, true},
		{"zero", "0", 0, false},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{500, 0, "500 B"},
		{10 << 20, 0, "10 MB"},
		{1536 << 10, 1, "1.5 MB"},
		{1024, -1, "1 KB"},
		{1023, 3, "1023 B"},
		{5 << 30, 0, "5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}
