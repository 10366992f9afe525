package crafts

import "fmt"

// ShapeError reports a raw document that is neither a [meta, mapping] pair nor
// a bare mapping.
type ShapeError struct {
	Path  string
	Found string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected craft JSON shape (found %s)", e.Path, e.Found)
}

// FieldError reports a present scalar field that cannot be coerced. Unlike ids
// and materials these are not skipped: the run aborts.
type FieldError struct {
	Key   string
	Field string
	Raw   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("entry %q: %s is not numeric: %s", e.Key, e.Field, e.Raw)
}
