package diag

import "fmt"

const (
	CodeSemaInvalidRedeclaration      = "FLT2001"
	CodeSemaInvalidPropertyRedecl     = "FLT2002"
	CodeSemaInvalidEventRedecl        = "FLT2003"
	CodeSemaUndeclaredContract        = "FLT2004"
	CodeSemaUndeclaredTrait           = "FLT2005"
	CodeSemaUndeclaredTypeState       = "FLT2006"
	CodeSemaUndeclaredProtection      = "FLT2007"
	CodeSemaMultiplePublicInit        = "FLT2008"
	CodeSemaMultiplePublicFallback    = "FLT2009"
	CodeSemaInconsistentTraitSig      = "FLT2010"
	CodeSemaMissingTraitFunction      = "FLT2011"
	CodeSemaMissingTraitInitializer   = "FLT2012"
	CodeSemaNoMatchingFunction        = "FLT2013"
	CodeSemaAmbiguousCall             = "FLT2014"
	CodeSemaNoMatchingEvent           = "FLT2015"
	CodeSemaUndeclaredIdentifier      = "FLT2016"
	CodeSemaStatesInStatelessContract = "FLT2017"
	CodeSemaReturnInSpecial           = "FLT2018"
	CodeTypeMismatchAssignment        = "FLT3001"
	CodeTypeMismatchReturn            = "FLT3002"
	CodeTypeNonBoolCondition          = "FLT3003"
	CodeTypeInvalidDefault            = "FLT3004"
	CodeTypeUnresolvedExpression      = "FLT3005"
	CodeTypeInconsistentLiteral       = "FLT3006"
	CodeLowerInvalidEnvironment       = "FLT4001"
	CodeLowerSelectorCollision        = "FLT4002"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Position describes a line/column position in a source file.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p precedes o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Span describes a source range.
type Span struct {
	File  string
	Start Position
	End   Position
}

// Before orders spans by file then start position.
func (s Span) Before(o Span) bool {
	if s.File != o.File {
		return s.File < o.File
	}
	return s.Start.Before(o.Start)
}

func (s Span) IsZero() bool {
	return s.File == "" && s.Start.Line <= 0 && s.Start.Column <= 0
}

func (s Span) String() string {
	if s.File == "" || s.Start.Line <= 0 || s.Start.Column <= 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// Diagnostic is a structured compile-time message.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Span     Span
	Notes    []Diagnostic
}

func (d Diagnostic) Error() string {
	if d.Span.File == "" || d.Span.Start.Line <= 0 || d.Span.Start.Column <= 0 {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: [%s] %s",
		d.Span.File,
		d.Span.Start.Line,
		d.Span.Start.Column,
		d.Code,
		d.Message,
	)
}

// Errorf builds an error diagnostic.
func Errorf(code string, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Warningf builds a warning diagnostic.
func Warningf(code string, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Notef builds a note, usually attached to another diagnostic.
func Notef(span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityNote,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithNote returns d with n appended to its notes.
func (d Diagnostic) WithNote(n Diagnostic) Diagnostic {
	notes := make([]Diagnostic, 0, len(d.Notes)+1)
	notes = append(notes, d.Notes...)
	d.Notes = append(notes, n)
	return d
}

// Diagnostics is an ordered diagnostic list.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	errs := ds.Errors()
	if len(errs) == 0 {
		errs = ds
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more error(s))", errs[0].Error(), len(errs)-1)
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Codes lists diagnostic codes in order; handy in tests.
func (ds Diagnostics) Codes() []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func (ds Diagnostics) Contains(code string) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
