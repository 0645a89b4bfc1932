package session

import "fmt"

// OutOfRangeError reports a selection index outside the current 1-based list
// numbering. It is a validation error: the session state is left unchanged.
type OutOfRangeError struct {
	Resource string // "device", "service", "characteristic"
	Index    int
	Count    int
}

func (e *OutOfRangeError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("no %ss discovered yet", e.Resource)
	}
	return fmt.Sprintf("%s index %d out of range [1, %d]", e.Resource, e.Index, e.Count)
}
