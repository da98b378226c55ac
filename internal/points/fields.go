package points

import "strings"

// Resolve looks up a logical field across several accepted spellings.
// Candidate names are tried in order; for each, an exact key match wins
// over a case-insensitive one. Empty values count as absent. The second
// return is false when no candidate yields a non-empty value.
func Resolve(record map[string]string, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := record[name]; ok && v != "" {
			return v, true
		}
		for k, v := range record {
			if v != "" && strings.EqualFold(k, name) {
				return v, true
			}
		}
	}
	return "", false
}
