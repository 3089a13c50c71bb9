package render

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Widgets holds the session's in-module widget selections, keyed by
// parameter name (see FilterParam and BindingParam).
type Widgets map[string]string

// Binding roles of an interactive map.
const (
	RoleLat   = "lat"
	RoleLon   = "lon"
	RoleColor = "color"
)

// FilterParam is the widget key of the category filter on an artifact.
func FilterParam(artifactName string) string {
	return "f." + artifactName
}

// BindingParam is the widget key of a map column binding on an artifact.
func BindingParam(role, artifactName string) string {
	return role + "." + artifactName
}

// IsWidgetParam reports whether key names a widget selection.
func IsWidgetParam(key string) bool {
	for _, prefix := range []string{"f.", RoleLat + ".", RoleLon + ".", RoleColor + "."} {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			return true
		}
	}
	return false
}

var latNames = []string{"lat", "latitude"}
var lonNames = []string{"lon", "lng", "long", "longitude"}

// guessColumn returns the first header column whose lower-cased name is in
// names, checking names in priority order.
func guessColumn(header []string, names []string) string {
	for _, n := range names {
		for _, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), n) {
				return h
			}
		}
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// sortedOptions returns values in locale-independent collation order.
func sortedOptions(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	collate.New(language.Und).SortStrings(out)
	return out
}
