package stylecache

import (
	"errors"
	"fmt"
)

var (
	ErrNilTheme    = errors.New("stylecache: theme is required")
	ErrNilProducer = errors.New("stylecache: style producer is required")
	ErrNoToken     = errors.New("stylecache: style context needs an acquired token")
)

// RegisterError reports a failed style registration. At most one of the
// cause fields is set: compilation happens strictly before sink insertion.
type RegisterError struct {
	Key        string
	CompileErr error
	SinkErr    error
}

func (e *RegisterError) Error() string {
	switch {
	case e.CompileErr != nil:
		return fmt.Sprintf("register %q: compile failed: %v", e.Key, e.CompileErr)
	case e.SinkErr != nil:
		return fmt.Sprintf("register %q: sink insert failed: %v", e.Key, e.SinkErr)
	default:
		return fmt.Sprintf("register %q: unknown error", e.Key)
	}
}

func (e *RegisterError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.CompileErr != nil {
		errs = append(errs, e.CompileErr)
	}
	if e.SinkErr != nil {
		errs = append(errs, e.SinkErr)
	}
	return errs
}
