package contact

import "strings"

// SearchFields holds the contact fields a search query is matched against.
type SearchFields struct {
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	Phone           string
}

// MatchesQuery reports whether a contact matches a free-text query.
// Names match case-insensitively, the phone matches as typed.
// An empty query matches everything.
func MatchesQuery(query string, f SearchFields) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.GivenName), q) ||
		strings.Contains(strings.ToLower(f.PaternalSurname), q) ||
		strings.Contains(strings.ToLower(f.MaternalSurname), q) ||
		strings.Contains(f.Phone, query)
}

// LessByName orders contacts by lowercase given name, then by ID.
func LessByName(aName string, aID int64, bName string, bID int64) bool {
	a, b := strings.ToLower(aName), strings.ToLower(bName)
	if a != b {
		return a < b
	}
	return aID < bID
}
