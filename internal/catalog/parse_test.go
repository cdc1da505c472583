package catalog

import "testing"

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		year    int
		quality string
		wantErr bool
	}{
		{"The.Kid_1921_720p.mkv", "The Kid", 1921, "720p", false},
		{"Inception_2010_1080p.mkv", "Inception", 2010, "1080p", false},
		{"Vikram_2022.mkv", "Vikram", 2022, "Unknown", false},
		{"OnlyTitle.mkv", "OnlyTitle", 0, "Unknown", false},
		{"Master_tamil_720p.mkv", "Master", 0, "720p", false},
		{"Some.Movie_abcd_480p.mkv", "Some Movie", 0, "480p", false},
		{".mkv", "", 0, "", true},
		{"", "", 0, "", true},
	}
	for _, tt := range tests {
		title, year, quality, err := ParseFilename(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if title != tt.title || year != tt.year || quality != tt.quality {
			t.Errorf("ParseFilename(%q) = (%q, %d, %q), want (%q, %d, %q)",
				tt.name, title, year, quality, tt.title, tt.year, tt.quality)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Master_2021_720p_Tamil.mkv", "tamil"},
		{"The.Kid_1921_720p_ENGLISH.mkv", "english"},
		{"Dangal_2016_1080p_hindi.mkv", "hindi"},
		{"Inception_2010_1080p.mkv", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.name); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want Query
	}{
		{"The Kid 1921", Query{Title: "The Kid", Year: 1921}},
		{"master tamil", Query{Title: "master", Language: "tamil"}},
		{"dangal 2016 hindi", Query{Title: "dangal", Year: 2016, Language: "hindi"}},
		{"1921", Query{Year: 1921}},
		{"inception", Query{Title: "inception"}},
		{"", Query{}},
		// only the first 4-digit token counts as a year
		{"blade runner 2049 1982", Query{Title: "blade runner 1982", Year: 2049}},
		{"movie 9999", Query{Title: "movie 9999"}},
	}
	for _, tt := range tests {
		if got := ParseQuery(tt.raw); got != tt.want {
			t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestMovieFormatting(t *testing.T) {
	m := &Movie{Title: "The Kid", Year: 1921, Quality: "720p", FileSize: "700.00MB"}
	if got := m.Label(); got != "The Kid (1921)" {
		t.Errorf("Label = %q", got)
	}
	if got := m.Caption(); got != "The Kid (1921, 720p, 700.00MB)" {
		t.Errorf("Caption = %q", got)
	}
	if got := m.FileName("@films "); got != "@films The Kid_720p.mkv" {
		t.Errorf("FileName = %q", got)
	}
}
