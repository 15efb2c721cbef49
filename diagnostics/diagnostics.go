// Package diagnostics defines the uniform error currency the analyzer
// passes through its pipeline (spec.md §7): every fallible step
// produces an *AnalysisError carrying a stable ErrorCode, a location,
// and a message, routed to a caller-supplied sink rather than thrown.
//
// The shape (a single error struct with a Code field, constructed at
// the point of failure and accumulated/deduplicated by the caller) is
// reconstructed from how funxy's internal/analyzer package consumes
// its own *diagnostics.DiagnosticError: a Code field compared in
// tests (expectAnalyzerError asserts de.Code == code), an addError
// method that deduplicates by "line:col:code", and a getErrors method
// that flattens the dedup set back into a slice. The concrete
// diagnostics.DiagnosticError source file itself was not present in
// the retrieved slice of the teacher repo, so this package is
// rebuilt from that usage contract, not copied.
package diagnostics

import (
	"fmt"

	"github.com/emmylua-go/luacore/ids"
)

// ErrorCode is a stable, string-backed identifier for a diagnostic
// kind. A string (rather than funxy's int-iota SymbolKind/ScopeType
// style) is deliberate: these values cross the sink-callback boundary
// into a collaborator and must survive reordering of this source file
// — see DESIGN.md.
type ErrorCode string

const (
	SyntaxError               ErrorCode = "syntax-error"
	TypeNotFound               ErrorCode = "type-not-found"
	TypeNotMatch                ErrorCode = "type-not-match"
	TypeNotMatchWithReason      ErrorCode = "type-not-match-with-reason"
	MissingReturn               ErrorCode = "missing-return"
	MissingParameter             ErrorCode = "missing-parameter"
	UndefinedGlobal              ErrorCode = "undefined-global"
	UndefinedField               ErrorCode = "undefined-field"
	InjectFieldFail              ErrorCode = "inject-field-fail"
	AccessPrivate                ErrorCode = "access-private"
	AccessProtected              ErrorCode = "access-protected"
	AccessPackage                ErrorCode = "access-package"
	Deprecated                   ErrorCode = "deprecated"
	NoDiscard                    ErrorCode = "no-discard"
	LocalConstReassign           ErrorCode = "local-const-reassign"
	DuplicateType                ErrorCode = "duplicate-type"
	CastTypeMismatch             ErrorCode = "cast-type-mismatch"
	GenericConstraintMismatch    ErrorCode = "generic-constraint-mismatch"
	UnreachableCode              ErrorCode = "unreachable-code"
	Unused                       ErrorCode = "unused"
	NeedImport                   ErrorCode = "need-import"
	DisableGlobalDefine          ErrorCode = "disable-global-define"
	InternalError                ErrorCode = "internal-error"
)

// Severity mirrors the per-code severity table consulted by the
// driver before emitting through the sink (spec.md §6
// "diagnostics.severity").
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// DefaultSeverity is the built-in severity for each code absent an
// override from `diagnostics.severity` config.
var DefaultSeverity = map[ErrorCode]Severity{
	SyntaxError:            SeverityError,
	TypeNotFound:           SeverityWarning,
	TypeNotMatch:           SeverityWarning,
	TypeNotMatchWithReason: SeverityWarning,
	MissingReturn:          SeverityWarning,
	MissingParameter:       SeverityError,
	UndefinedGlobal:        SeverityWarning,
	UndefinedField:         SeverityWarning,
	InjectFieldFail:        SeverityWarning,
	AccessPrivate:          SeverityWarning,
	AccessProtected:        SeverityWarning,
	AccessPackage:          SeverityWarning,
	Deprecated:             SeverityHint,
	NoDiscard:               SeverityWarning,
	LocalConstReassign:     SeverityError,
	DuplicateType:          SeverityWarning,
	CastTypeMismatch:       SeverityWarning,
	GenericConstraintMismatch: SeverityWarning,
	UnreachableCode:        SeverityHint,
	Unused:                 SeverityHint,
	NeedImport:             SeverityInformation,
	DisableGlobalDefine:    SeverityWarning,
	InternalError:          SeverityError,
}

// DefaultEnabled mirrors `diagnostics.enable`/`diagnostics.disable`:
// codes absent from this map (or mapped true) fire by default.
var DefaultEnabled = map[ErrorCode]bool{
	Unused:        false,
	NoDiscard:     false,
	InternalError: true,
}

// IsEnabledByDefault reports the built-in enablement for code, true
// unless explicitly disabled in DefaultEnabled.
func IsEnabledByDefault(code ErrorCode) bool {
	enabled, explicit := DefaultEnabled[code]
	if !explicit {
		return true
	}
	return enabled
}

// AnalysisError is the single error currency threaded through every
// analyzer pass. Recovered inference failures (spec.md §7 "hard
// failures during an inference step ... are recovered locally") never
// become an AnalysisError; only failures meant to reach the sink do.
type AnalysisError struct {
	Code     ErrorCode
	File     ids.FileId
	Range    ids.Range
	Message  string
	Severity *Severity // nil means "use DefaultSeverity/config override"
	Reason   string    // populated for TypeNotMatchWithReason
}

func (e *AnalysisError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EffectiveSeverity resolves e's severity, falling back to the
// built-in table when the error was not constructed with an explicit
// override.
func (e *AnalysisError) EffectiveSeverity() Severity {
	if e.Severity != nil {
		return *e.Severity
	}
	if sev, ok := DefaultSeverity[e.Code]; ok {
		return sev
	}
	return SeverityWarning
}

// New constructs an AnalysisError at the default severity for code.
func New(code ErrorCode, file ids.FileId, r ids.Range, message string) *AnalysisError {
	return &AnalysisError{Code: code, File: file, Range: r, Message: message}
}

// NewWithReason constructs a TypeNotMatchWithReason-shaped error.
func NewWithReason(code ErrorCode, file ids.FileId, r ids.Range, message, reason string) *AnalysisError {
	return &AnalysisError{Code: code, File: file, Range: r, Message: message, Reason: reason}
}

// Sink is the external collaborator's diagnostic callback (spec.md §6
// "Diagnostic sink").
type Sink func(err *AnalysisError)

// dedupKey matches funxy's own "line:col:code" deduplication key
// (internal/analyzer/analyzer.go addError), adapted to byte offsets
// since this core has no line/col model of its own (that belongs to
// the collaborator rendering positions for humans).
func dedupKey(e *AnalysisError) string {
	return fmt.Sprintf("%d:%d:%s", e.File, e.Range.Start, e.Code)
}

// Collector accumulates AnalysisErrors with the same "one error per
// (file, position, code)" deduplication funxy's walker.addError
// performs, then exposes them in insertion order via Errors().
type Collector struct {
	seen  map[string]bool
	order []*AnalysisError
}

func NewCollector() *Collector {
	return &Collector{seen: make(map[string]bool)}
}

func (c *Collector) Add(e *AnalysisError) {
	key := dedupKey(e)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.order = append(c.order, e)
}

func (c *Collector) AddAll(errs []*AnalysisError) {
	for _, e := range errs {
		c.Add(e)
	}
}

func (c *Collector) Errors() []*AnalysisError {
	result := make([]*AnalysisError, len(c.order))
	copy(result, c.order)
	return result
}

// Emit reports every collected error to sink, honoring the
// `diagnostics.disable` / `diagnostics.enables` config knobs (§6):
// disabled always wins, an explicit enable overrides a default-off
// code, and everything else falls back to IsEnabledByDefault.
func (c *Collector) Emit(sink Sink, enables, disable map[ErrorCode]bool) {
	for _, e := range c.order {
		if disable[e.Code] {
			continue
		}
		if enables[e.Code] {
			sink(e)
			continue
		}
		if IsEnabledByDefault(e.Code) {
			sink(e)
		}
	}
}
