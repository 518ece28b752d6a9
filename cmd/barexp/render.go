// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/barexp/barexp/internal/config"
	"github.com/barexp/barexp/internal/issue"
)

// renderError writes err for the user. ActionableErrors list their
// suggestions; in verbose mode the error chain and the matching issue
// catalog entry follow.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !verbose || !errors.As(err, &ae) || ae.IssueID == 0 {
		return
	}
	entry := issue.Get(ae.IssueID)
	if entry == nil {
		return
	}

	rendered, renderErr := entry.Render(glamourStyle(scheme))
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", ae.IssueID, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// glamourStyle maps the configured color scheme onto a glamour style name.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
