// Package errorpipeline classifies runtime/build error text observed in a
// user's generated application sandbox and drives a bounded automatic
// repair loop, sharing its retry/backoff semantics with the webhook
// delivery queue. The classifier is adapted directly from
// pkg/emailerror.Classifier's pattern-table technique: the same
// "extract an HTTP-status-like signal, then pattern-match the message" idiom,
// retargeted from email-provider errors to generated-app errors.
package errorpipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/Notifuse/notifuse/internal/domain"
)

// Classifier turns raw error strings into domain.ClassifiedError values.
type Classifier struct{}

// NewClassifier creates a new error classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// kindPattern pairs a compiled matcher with the ErrorKind it signals.
// Order matters: the first match wins, so more specific patterns are
// listed before their more general neighbors.
type kindPattern struct {
	kind    domain.ErrorKind
	matches func(lower string) bool
}

var kindPatterns = []kindPattern{
	{domain.ErrorKindInfiniteLoop, containsAnyFn("maximum update depth exceeded", "too much recursion", "call stack size exceeded")},
	{domain.ErrorKindHookMisuse, containsAnyFn("invalid hook call", "hooks can only be called", "rendered more hooks than")},
	{domain.ErrorKindNullAccess, containsAnyFn("cannot read propert", "cannot read properties of undefined", "undefined is not an object", "null is not an object")},
	{domain.ErrorKindImport, containsAnyFn("cannot find module", "module not found", "failed to resolve import", "unresolved import")},
	{domain.ErrorKindSyntax, containsAnyFn("unexpected token", "syntaxerror", "unterminated string", "unexpected end of input")},
	{domain.ErrorKindType, containsAnyFn("typeerror", "is not assignable to type", "does not satisfy the constraint")},
	{domain.ErrorKindStyling, containsAnyFn("unknown at rule", "unknown css", "invalid property value", "tailwind")},
	{domain.ErrorKindBuild, containsAnyFn("build failed", "compilation failed", "failed to compile")},
	{domain.ErrorKindNetwork, containsAnyFn("econnrefused", "etimedout", "network error", "fetch failed", "dns lookup failed")},
	{domain.ErrorKindRuntime, containsAnyFn("referenceerror", "rangeerror", "uncaught exception", "panic:")},
}

// severityPattern pairs a matcher with the ErrorSeverity it signals,
// checked independently of the kind table.
type severityPattern struct {
	severity domain.ErrorSeverity
	matches  func(lower string) bool
}

var severityPatterns = []severityPattern{
	{domain.SeverityCritical, containsAnyFn("maximum update depth exceeded", "out of memory", "fatal", "segmentation fault", "build failed")},
	{domain.SeverityHigh, containsAnyFn("cannot find module", "module not found", "invalid hook call", "typeerror")},
	{domain.SeverityMedium, containsAnyFn("cannot read propert", "referenceerror", "unexpected token")},
	{domain.SeverityLow, containsAnyFn("unknown at rule", "invalid property value", "deprecat")},
}

func containsAnyFn(patterns ...string) func(string) bool {
	return func(lower string) bool {
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
}

// confidenceFor mirrors the spec's fixed table: import/syntax are the most
// mechanically recognizable, critical severity is usually unambiguous,
// everything else defaults to 0.7, and unknown kind settles at 0.3.
func confidenceFor(kind domain.ErrorKind, severity domain.ErrorSeverity) float64 {
	switch {
	case kind == domain.ErrorKindUnknown:
		return 0.3
	case kind == domain.ErrorKindImport || kind == domain.ErrorKindSyntax:
		return 0.95
	case severity == domain.SeverityCritical:
		return 0.9
	default:
		return 0.7
	}
}

// Classify runs errText through the kind/severity pattern tables and
// returns a fully-populated ClassifiedError, including its dedup hash.
func (c *Classifier) Classify(errText string) *domain.ClassifiedError {
	lower := strings.ToLower(errText)

	kind := domain.ErrorKindUnknown
	for _, p := range kindPatterns {
		if p.matches(lower) {
			kind = p.kind
			break
		}
	}

	severity := domain.SeverityMedium
	for _, p := range severityPatterns {
		if p.matches(lower) {
			severity = p.severity
			break
		}
	}
	if kind == domain.ErrorKindUnknown {
		severity = domain.SeverityLow
	}

	confidence := confidenceFor(kind, severity)
	strategy := domain.StrategyFor(kind)
	if kind == domain.ErrorKindStyling && severity != domain.SeverityCritical {
		strategy = domain.FixStrategyFastFixer
	}

	file, line := extractLocation(errText)

	return &domain.ClassifiedError{
		OriginalMessage: errText,
		Kind:            kind,
		Severity:        severity,
		Fixable:         domain.IsAutoFixable(kind, severity),
		FixStrategy:     strategy,
		Confidence:      confidence,
		ContentHash:     ContentHash(errText),
		File:            file,
		Line:            line,
		StackExtract:    stackExtract(errText),
	}
}

var (
	fileLineRegex  = regexp.MustCompile(`(?i)([\w./-]+\.(?:tsx?|jsx?|css))(?::| line )(\d+)`)
	isoTimestamp   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?`)
	lineNumber     = regexp.MustCompile(`(?i)\bline\s+\d+\b`)
	columnNumber   = regexp.MustCompile(`(?i)\bcolumn\s+\d+\b`)
	atPosition     = regexp.MustCompile(`@\d+:\d+`)
	msSuffixNumber = regexp.MustCompile(`\b\d+ms\b`)
)

func extractLocation(errText string) (string, int) {
	m := fileLineRegex.FindStringSubmatch(errText)
	if len(m) < 3 {
		return "", 0
	}
	line, err := strconv.Atoi(m[2])
	if err != nil {
		return m[1], 0
	}
	return m[1], line
}

func stackExtract(errText string) string {
	lines := strings.Split(errText, "\n")
	if len(lines) <= 1 {
		return ""
	}
	extract := lines[1:]
	if len(extract) > 5 {
		extract = extract[:5]
	}
	return strings.TrimSpace(strings.Join(extract, "\n"))
}

// ContentHash normalizes errText by stripping timestamps, line/column
// markers, "@N:N" positions, and numeric-ms suffixes, then hashes the
// lowercase-trimmed residue. Two error texts that differ only in those
// volatile fields collapse to the same hash, which is what lets the
// execution loop's dedup set recognize a recurrence of "the same" error.
func ContentHash(errText string) string {
	s := isoTimestamp.ReplaceAllString(errText, "")
	s = lineNumber.ReplaceAllString(s, "")
	s = columnNumber.ReplaceAllString(s, "")
	s = atPosition.ReplaceAllString(s, "")
	s = msSuffixNumber.ReplaceAllString(s, "")
	s = strings.ToLower(strings.TrimSpace(s))
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
