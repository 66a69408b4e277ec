package clip

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipshelf/internal/textutil"
)

var markerCaser = cases.Title(language.Und)

// genericMarker suffixes whole-video outputs that carry no category.
const genericMarker = "full"

// OutputName derives a clip filename stem (no extension) from the source
// filename and clip parameters.
//
// A sanitized explicit title wins, optionally date-prefixed. Without a
// title, a range spanning the whole video suffixes the source basename with
// the category or a generic marker; any other range suffixes the basename
// with the sanitized category (if any) and formatted start/end timestamps.
func OutputName(original string, start, end *float64, category, title, datePrefix string) string {
	if clean := textutil.SanitizeFileName(title); clean != "" {
		if datePrefix != "" {
			return datePrefix + " " + clean
		}
		return clean
	}

	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	cleanCategory := textutil.SanitizeFileName(category)

	if wholeRange(start, end) {
		marker := cleanCategory
		if marker == "" {
			marker = markerCaser.String(genericMarker)
		}
		return base + " - " + marker
	}

	parts := []string{base}
	if cleanCategory != "" {
		parts = append(parts, cleanCategory)
	}
	startSeconds := 0.0
	if start != nil {
		startSeconds = *start
	}
	stamp := formatStamp(startSeconds)
	if end != nil {
		stamp += " to " + formatStamp(*end)
	} else {
		stamp += " to end"
	}
	parts = append(parts, stamp)
	return strings.Join(parts, " - ")
}

func wholeRange(start, end *float64) bool {
	if end != nil {
		return false
	}
	return start == nil || *start == 0
}

// formatStamp renders seconds as HH-MM-SS, or MM-SS under an hour. Colons
// are unsafe in filenames, so hyphens stand in.
func formatStamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d-%02d-%02d", h, m, s)
	}
	return fmt.Sprintf("%02d-%02d", m, s)
}
