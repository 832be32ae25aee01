// Package errs defines the error taxonomy shared by every pipeline stage.
//
// An *Error carries a Kind, the Stage it surfaced in and whatever context
// (column, candidate, path) is needed to diagnose it without re-running.
// Sentinels match by kind, so callers can write
//
//	if errors.Is(err, errs.ErrFit) { ... }
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindIO
	KindFit
	KindSelection
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindFit:
		return "fit"
	case KindSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Stage names the pipeline stage an error originated in.
type Stage string

const (
	StageConfig    Stage = "config"
	StageIngest    Stage = "ingest"
	StageSplit     Stage = "split"
	StageTransform Stage = "transform"
	StageEvaluate  Stage = "evaluate"
	StageSelect    Stage = "select"
	StagePersist   Stage = "persist"
	StagePredict   Stage = "predict"
)

// Error is the concrete error type returned across package boundaries.
type Error struct {
	Kind      Kind
	Stage     Stage
	Column    string
	Candidate string
	Path      string
	Msg       string
	Err       error
}

// Sentinels for errors.Is. Only the kind is compared.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrIO            = &Error{Kind: KindIO}
	ErrFit           = &Error{Kind: KindFit}
	ErrSelection     = &Error{Kind: KindSelection}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Stage != "" {
		fmt.Fprintf(&b, " [%s]", e.Stage)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " (column=%q)", e.Column)
	}
	if e.Candidate != "" {
		fmt.Fprintf(&b, " (candidate=%q)", e.Candidate)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (path=%q)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind wrapping err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Configuration is shorthand for New(KindConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(KindConfiguration, format, args...)
}

// IO wraps a filesystem error with the path involved.
func IO(err error, path string, format string, args ...any) *Error {
	e := Wrap(KindIO, err, format, args...)
	e.Path = path
	return e
}

// Fit wraps a candidate failure.
func Fit(candidate string, err error, format string, args ...any) *Error {
	e := Wrap(KindFit, err, format, args...)
	e.Candidate = candidate
	return e
}

// Selection is shorthand for New(KindSelection, ...).
func Selection(format string, args ...any) *Error {
	return New(KindSelection, format, args...)
}

// WithColumn sets the column context and returns e.
func (e *Error) WithColumn(col string) *Error {
	e.Column = col
	return e
}

// WithCandidate sets the candidate context and returns e.
func (e *Error) WithCandidate(name string) *Error {
	e.Candidate = name
	return e
}

// WithPath sets the path context and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// In sets the stage and returns e.
func (e *Error) In(stage Stage) *Error {
	e.Stage = stage
	return e
}

// InStage stamps stage on the outermost *Error in err's chain if it has none
// yet. Errors outside the taxonomy are wrapped with fallback kind.
func InStage(err error, stage Stage, fallback Kind) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Stage == "" {
			e.Stage = stage
		}
		return err
	}
	return &Error{Kind: fallback, Stage: stage, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StageOf returns the stage of the first *Error in err's chain.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
