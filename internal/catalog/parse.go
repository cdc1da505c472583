package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// MimeMatroska is the only container the indexer accepts.
const MimeMatroska = "video/x-matroska"

// Languages recognized in filenames and search queries.
var Languages = []string{"tamil", "english", "hindi"}

// ParseFilename extracts title, year and quality from the channel naming
// convention "Title_Year_Quality.mkv". Dots inside the title stand for
// spaces ("The.Kid_1921_720p.mkv"). A missing or non-numeric year becomes
// 0 and a missing quality becomes "Unknown".
func ParseFilename(name string) (title string, year int, quality string, err error) {
	base := strings.TrimSuffix(name, ".mkv")
	if base == "" {
		return "", 0, "", fmt.Errorf("empty filename")
	}

	parts := strings.Split(base, "_")
	title = strings.TrimSpace(strings.ReplaceAll(parts[0], ".", " "))
	if title == "" {
		return "", 0, "", fmt.Errorf("no title in %q", name)
	}

	year = 0
	if len(parts) > 1 {
		if y, convErr := strconv.Atoi(parts[1]); convErr == nil && y > 0 {
			year = y
		}
	}

	quality = "Unknown"
	if len(parts) > 2 && parts[2] != "" {
		quality = parts[2]
	}

	return title, year, quality, nil
}

// DetectLanguage scans a filename for a known language marker.
// Returns "" when none is present.
func DetectLanguage(name string) string {
	lower := strings.ToLower(name)
	for _, lang := range Languages {
		if strings.Contains(lower, lang) {
			return lang
		}
	}
	return ""
}

// Query is a tokenized search request.
type Query struct {
	Title    string
	Year     int
	Language string
}

// ParseQuery splits a free-form search string into title terms, an optional
// year (the first standalone 4-digit token) and an optional language word.
func ParseQuery(raw string) Query {
	var q Query
	terms := make([]string, 0, 4)

	for _, tok := range strings.Fields(raw) {
		if q.Year == 0 && len(tok) == 4 {
			if y, err := strconv.Atoi(tok); err == nil && y >= 1000 && y < 3000 {
				q.Year = y
				continue
			}
		}
		if q.Language == "" && isLanguage(tok) {
			q.Language = strings.ToLower(tok)
			continue
		}
		terms = append(terms, tok)
	}

	q.Title = strings.Join(terms, " ")
	return q
}

func isLanguage(tok string) bool {
	lower := strings.ToLower(tok)
	for _, lang := range Languages {
		if lower == lang {
			return true
		}
	}
	return false
}
