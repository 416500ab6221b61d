package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which pipeline stage produced the error
type Phase string

const (
	PhaseRegistry  Phase = "registry"  // registry snapshot loading/validation
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseSymtab    Phase = "symtab"    // symbol table construction
	PhaseResolve   Phase = "resolve"   // require/remove replay
	PhasePartition Phase = "partition" // artifact partitioning
	PhaseSynth     Phase = "synth"     // binding synthesis
	PhaseAssemble  Phase = "assemble"  // artifact assembly
	PhaseAggregate Phase = "aggregate" // extension grouping
	PhaseRender    Phase = "render"    // source rendering
	PhaseWrite     Phase = "write"     // artifact writing
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownProfile     Kind = "unknown_profile"
	KindMalformedExtension Kind = "malformed_extension"
	KindDanglingSymbol     Kind = "dangling_symbol"
	KindDuplicateSymbol    Kind = "duplicate_symbol"
	KindFrozen             Kind = "frozen"
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidData        Kind = "invalid_data"
	KindCycle              Kind = "cycle"
	KindIO                 Kind = "io"
)

// Error is the structured error type used throughout the generator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (feature, extension, artifact...)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownProfile creates an error for a (feature, profile) pair missing from the version table
func UnknownProfile(feature, profile string) *Error {
	if profile == "" {
		profile = "<none>"
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownProfile,
		Path:   []string{feature},
		Detail: fmt.Sprintf("no artifact mapped for profile %q", profile),
		Value:  profile,
	}
}

// MalformedExtension creates an error for an extension name without vendor and suffix
func MalformedExtension(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedExtension,
		Detail: fmt.Sprintf("extension name %q does not split into vendor and suffix", name),
		Value:  name,
	}
}

// DuplicateSymbol creates a duplicate identity error
func DuplicateSymbol(phase Phase, kind, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateSymbol,
		Detail: fmt.Sprintf("%s %q declared more than once", kind, name),
		Value:  name,
	}
}

// Frozen creates an error for mutation after the symbol table was frozen
func Frozen(what string) *Error {
	return &Error{
		Phase:  PhaseSymtab,
		Kind:   KindFrozen,
		Detail: fmt.Sprintf("%s after freeze", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Cycle creates an import cycle error
func Cycle(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Path:   path,
		Detail: "import cycle",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a snapshot or config loading error
func Load(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a decoding error
func ParseFailed(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// DanglingRef is a single require/remove entry naming an unknown symbol
type DanglingRef struct {
	Source string // feature or extension name, e.g. "GL_VERSION_3_2"
	Symbol string // e.g. "glFooBar"
}

// DanglingError is returned when require/remove entries name symbols absent from the table
type DanglingError struct {
	Refs []DanglingRef
}

// NewDanglingError creates an error from the collected references
func NewDanglingError(refs []DanglingRef) *DanglingError {
	out := make([]DanglingRef, len(refs))
	copy(out, refs)
	return &DanglingError{Refs: out}
}

func (e *DanglingError) Error() string {
	if len(e.Refs) == 0 {
		return "[resolve] dangling_symbol: no references specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[resolve] dangling_symbol: %d unknown symbol reference(s):\n", len(e.Refs))

	// Group by source for cleaner output
	bySource := make(map[string][]string)
	var order []string
	for _, ref := range e.Refs {
		if _, exists := bySource[ref.Source]; !exists {
			order = append(order, ref.Source)
		}
		bySource[ref.Source] = append(bySource[ref.Source], ref.Symbol)
	}

	for _, src := range order {
		b.WriteString("\n  ")
		b.WriteString(src)
		b.WriteString(":\n")
		for _, sym := range bySource[src] {
			b.WriteString("    - ")
			b.WriteString(sym)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type. A dangling error also
// matches the generic resolve/dangling_symbol *Error.
func (e *DanglingError) Is(target error) bool {
	switch t := target.(type) {
	case *DanglingError:
		return true
	case *Error:
		return t.Phase == PhaseResolve && t.Kind == KindDanglingSymbol
	}
	return false
}
