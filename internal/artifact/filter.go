package artifact

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects artifacts of one content type whose id matches a glob.
// Patterns use '/' as separator; "*" stays inside a segment and "**" spans
// segments.
type Filter struct {
	Pattern string
	Type    ContentType
}

// All matches every artifact of type ct.
func All(ct ContentType) Filter {
	return Filter{Pattern: "**", Type: ct}
}

// Validate reports a malformed pattern.
func (f Filter) Validate() error {
	if !doublestar.ValidatePattern(f.Pattern) {
		return fmt.Errorf("invalid artifact pattern %q", f.Pattern)
	}
	return nil
}

// Matches reports whether an artifact with the given id and type is selected.
func (f Filter) Matches(id ID, ct ContentType) bool {
	if ct != f.Type {
		return false
	}
	ok, err := doublestar.Match(f.Pattern, string(id))
	return err == nil && ok
}

func (f Filter) String() string {
	return f.Pattern + "." + f.Type.Suffix
}
