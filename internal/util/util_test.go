package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"20MB", 20 * 1024 * 1024, false},
		{"2G", 2 * 1024 * 1024 * 1024, false},
		{"1.5G", 1610612736, false},
		{"512", 512, false},
		{"100K", 100 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
		{"10X", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{1503238553, "1.40GB"},
		{734003200, "700.00MB"},
		{1024 * 1024 * 1024, "1.00GB"},
		{0, "0.00MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeBase(t *testing.T) {
	if got := SafeBase(""); got != "file" {
		t.Errorf("SafeBase(\"\") = %q, want \"file\"", got)
	}
	if got := SafeBase("/a/b/movie.mkv"); got != "movie.mkv" {
		t.Errorf("SafeBase = %q, want \"movie.mkv\"", got)
	}
}
