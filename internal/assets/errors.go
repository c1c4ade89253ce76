package assets

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every load failure, whatever its cause.
var ErrUnavailable = errors.New("asset unavailable")

// Error describes a failed load of one catalog entry.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }
