// Package diag provides the two error channels the core uses: a
// fatal, panic-based channel for invariant violations that indicate a bug
// in the core itself, and a non-fatal Collector for diagnostics about the
// input (unresolved references, unhandled cursors, recoverable malformed
// input) that a caller inspects after a run completes.
//
// The shape is grounded on golangsnmp-gomib's resolverContext/Diagnostic:
// a Severity-tagged Diagnostic struct accumulated into a slice, with
// per-severity helpers (Infof, Warnf, Errorf) wrapping a single Record
// call and a shared set of Code* constants for the failure categories.
package diag

import "fmt"

// Severity mirrors gomib's mib.Severity: diagnostics are informational by
// default and only become actionable when a caller asks for them.
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
	default:
		return "unknown"
	}
}

// Diagnostic describes one observation about the input made while walking
// the cursor tree or resolving references. ItemPath is the best-effort
// canonical path of the item the diagnostic is about, empty when none
// exists yet (e.g. a cursor that was never turned into an Item).
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	ItemPath string
}

func (d Diagnostic) String() string {
	if d.ItemPath == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", d.Severity, d.Code, d.Message, d.ItemPath)
}

// Diagnostic codes for the categories the core itself raises. Callers may
// use their own codes too; these just keep the core's own call sites
// consistent.
const (
	CodeUnresolvedTypeRef  = "unresolved-type-ref"
	CodeUnhandledCursor    = "unhandled-cursor"
	CodeDuplicateItem      = "duplicate-item"
	CodeInvalidAnnotation  = "invalid-annotation"
	CodeOverloadCollision  = "overload-collision"
	CodeMalformedNamespace = "malformed-namespace"
)

// Collector accumulates non-fatal diagnostics during a parse. It is not
// safe for concurrent use, matching the single-threaded core.
type Collector struct {
	entries []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends a diagnostic.
func (c *Collector) Record(d Diagnostic) {
	c.entries = append(c.entries, d)
}

// Warnf records a SeverityWarning diagnostic with a formatted message.
func (c *Collector) Warnf(code, itemPath, format string, args ...any) {
	c.Record(Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), ItemPath: itemPath})
}

// Errorf records a SeverityError diagnostic with a formatted message.
func (c *Collector) Errorf(code, itemPath, format string, args ...any) {
	c.Record(Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), ItemPath: itemPath})
}

// Infof records a SeverityInfo diagnostic with a formatted message.
func (c *Collector) Infof(code, itemPath, format string, args ...any) {
	c.Record(Diagnostic{Severity: SeverityInfo, Code: code, Message: fmt.Sprintf(format, args...), ItemPath: itemPath})
}

// All returns every diagnostic recorded so far, in recording order.
func (c *Collector) All() []Diagnostic {
	return c.entries
}

// HasErrors reports whether any recorded diagnostic is SeverityError or
// above.
func (c *Collector) HasErrors() bool {
	for _, d := range c.entries {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity returns how many recorded diagnostics have the given
// severity.
func (c *Collector) CountBySeverity(s Severity) int {
	n := 0
	for _, d := range c.entries {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// ProgrammerError is the panic value raised by Fatalf. It signals a broken
// invariant in the core itself (a contract violation, not a property of
// the input), matching rust-bindgen's own use of unreachable!()/assert!()
// for the same class of failure.
type ProgrammerError struct {
	Message string
}

func (e *ProgrammerError) Error() string {
	return "cirbind: programmer error: " + e.Message
}

// Fatalf panics with a *ProgrammerError built from the formatted message.
// Reserved for conditions the core contract declares impossible:
// a caller or a recovering goroutine is expected to treat this as a bug
// report, not an input error.
func Fatalf(format string, args ...any) {
	panic(&ProgrammerError{Message: fmt.Sprintf(format, args...)})
}

// Assert panics via Fatalf when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		Fatalf(format, args...)
	}
}
