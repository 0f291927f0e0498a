package state

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("smoothie not found")
	ErrAlreadyPublished = errors.New("smoothie already published")
	ErrNotPublished     = errors.New("smoothie is not published")
	ErrPublishedChange  = errors.New("use publish or unpublish to change whether a smoothie is published")
)

// BusinessError is a lookup-or-state failure detected in the cache before
// any store is touched. Kind is one of the Err sentinels.
type BusinessError struct {
	Kind error
	Op   string
	ID   string
}

func (e *BusinessError) Error() string {
	if errors.Is(e.Kind, ErrNotFound) {
		return fmt.Sprintf("could not find smoothie to %s", e.Op)
	}
	return e.Kind.Error()
}

func (e *BusinessError) Unwrap() error { return e.Kind }
