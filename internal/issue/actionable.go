// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// verboseHint closes the short form of errors that have a catalog entry.
const verboseHint = "Run again with --verbose for a troubleshooting guide."

type (
	// ActionableError is a user-facing failure of a generation step: what
	// barexp was doing, on which path or symbol, and how to get past it.
	//
	// Build one with the ErrorContext builder:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("write aggregator file").
	//		WithResource("src/services/mod.rs").
	//		WithSuggestion("Check that the directory is writable").
	//		WithIssue(issue.AggregatorWriteFailedId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase ("write aggregator file").
		Operation string
		// Resource is the directory, file, package or export key involved.
		Resource string
		// Suggestions are distinct, non-empty hints in insertion order.
		Suggestions []string
		// IssueID links the error to a catalog entry; zero means none.
		IssueID Id
		// Cause is the underlying error.
		Cause error
	}

	// ErrorContext accumulates the parts of an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error with its suggestions as a bullet list.
//
// Verbose output appends the numbered cause chain. Short output instead
// points at --verbose when a catalog entry exists for IssueID.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	switch {
	case verbose && e.Cause != nil:
		b.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
		}
	case !verbose && Get(e.IssueID) != nil:
		b.WriteString("\n\n" + verboseHint)
	}

	return b.String()
}

// WithOperation sets the failed step as a verb phrase.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource names the path, package or export key involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion adds a hint. Empty and repeated hints are dropped.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	if sug != "" && !slices.Contains(c.err.Suggestions, sug) {
		c.err.Suggestions = append(c.err.Suggestions, sug)
	}
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.IssueID = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// BuildError returns the accumulated *ActionableError, or nil when no
// operation was set.
func (c *ErrorContext) BuildError() error {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = slices.Clone(c.err.Suggestions)
	return &ae
}
