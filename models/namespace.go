package models

// Scope values of a Namespace.
const (
	ScopePrivate = "private"
	ScopePublic  = "public"
)

// Namespace addresses one database of the record store: a container and
// its private or public scope.
type Namespace struct {
	Container string `json:"container"`
	Scope     string `json:"scope"`
}

// ValidScope reports whether s names a known scope.
func ValidScope(s string) bool {
	return s == ScopePrivate || s == ScopePublic
}
