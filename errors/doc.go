// Package errors provides structured error types for the binding generator.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind (error category).
// The Error type carries a location path (feature, extension or artifact), a detail
// message, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindUnknownProfile).
//		Path("GL_VERSION_3_2").
//		Detail("no artifact mapped for profile %q", "es").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownProfile("GL_VERSION_3_2", "es")
//	err := errors.MalformedExtension(errors.PhaseAssemble, "GL_foo")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
