// Package fault defines the typed failure every pipeline stage returns.
//
// A stage returns (payload, error). A nil error is the success variant and the
// payload is usable. A non-nil error is always a *Error, and any payload attached
// to it through Partial is for diagnosis only.
package fault

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindLookup
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindLookup:
		return "lookup"
	case KindConfiguration:
		return "configuration"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText lets severities appear by name in reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Error struct {
	Kind     Kind
	Severity Severity
	// Stage names the pipeline stage that failed, e.g. "extract" or "match".
	Stage   string
	Message string
	// Context locates the offending input: layer, position, group key, ...
	Context map[string]any
	// Partial holds whatever the stage had produced before failing.
	Partial any
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Stage != "" {
		b.WriteString(e.Stage)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With returns a copy of e with key set in its context.
func (e *Error) With(key string, value any) *Error {
	c := *e
	c.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	c.Context[key] = value
	return &c
}

// WithPartial returns a copy of e carrying partial results.
func (e *Error) WithPartial(partial any) *Error {
	c := *e
	c.Partial = partial
	return &c
}

// Wrap returns a copy of e with a cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

func newError(kind Kind, stage, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Severity: SeverityError,
		Stage:    stage,
		Message:  fmt.Sprintf(format, args...),
	}
}

func Validation(stage, format string, args ...any) *Error {
	return newError(KindValidation, stage, format, args...)
}

func Lookup(stage, format string, args ...any) *Error {
	return newError(KindLookup, stage, format, args...)
}

func Configuration(stage, format string, args ...any) *Error {
	return newError(KindConfiguration, stage, format, args...)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
