package relink

import (
	"regexp"
	"time"
)

const dateFolderLayout = "2006-01-02"

var dateFolderPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateFolder returns the clip sub-folder name for a timestamp: the nearest
// Sunday on or before it, formatted as YYYY-MM-DD.
func DateFolder(t time.Time) string {
	sunday := t.AddDate(0, 0, -int(t.Weekday()))
	return sunday.Format(dateFolderLayout)
}

// isDateFolder reports whether a directory name looks like a date folder.
func isDateFolder(name string) bool {
	if !dateFolderPattern.MatchString(name) {
		return false
	}
	_, err := time.Parse(dateFolderLayout, name)
	return err == nil
}
