// Package logging constructs slog loggers for captionscript.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Helper aliases (String, Int, Error,
// ...) keep call sites terse, and NewComponentLogger stamps every record with
// the owning component name.
package logging
