package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ppm/internal/core/domain"
)

// printer writes prefixed, styled lines to one writer.
type printer struct {
	w      io.Writer
	styles *styles
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w), nil),
	}
}

func (p *printer) successf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Success.Render("✓"), fmt.Sprintf(format, args...))
}

func (p *printer) infof(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Title.Render("•"), fmt.Sprintf(format, args...))
}

func (p *printer) warnf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Warning.Render("!"), fmt.Sprintf(format, args...))
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Error.Render("✗"), fmt.Sprintf(format, args...))
}

func (p *printer) muted(s string) {
	fmt.Fprintln(p.w, p.styles.Muted.Render(s))
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.w, p.styles.Title.Render(s))
}

func (p *printer) field(key, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.styles.Key.Render(key+":"), value)
}

// renderReport prints one line per item and a summary when anything failed.
func renderReport(p *printer, report *domain.BatchReport) {
	for _, item := range report.Items {
		renderItem(p, item)
	}

	if failures := len(report.Failures()); failures > 0 {
		p.muted(fmt.Sprintf("%d succeeded, %d failed", len(report.Items)-failures, failures))
	}
}

func renderItem(p *printer, item domain.ItemOutcome) {
	if item.Status == domain.StatusFailed {
		p.errorf("%v", item.Err)
		return
	}

	var msg string
	switch item.Status {
	case domain.StatusAdded:
		msg = fmt.Sprintf("Package '%s' added (%s)", item.Name, item.Version)
	case domain.StatusRemoved:
		msg = fmt.Sprintf("Package '%s' removed", item.Name)
	case domain.StatusInstalled:
		msg = fmt.Sprintf("Package '%s' installed (%s)", item.Name, item.Version)
	case domain.StatusUpdated:
		msg = fmt.Sprintf("Package '%s' updated %s -> %s", item.Name, item.Previous, item.Version)
	case domain.StatusUnchanged:
		p.muted(fmt.Sprintf("  Package '%s' is up to date (%s)", item.Name, item.Version))
		return
	default:
		msg = fmt.Sprintf("Package '%s' %s", item.Name, item.Status)
	}

	// The environment changed but the manifest could not be written.
	if item.Err != nil {
		p.warnf("%s, but the manifest was not updated: %v", msg, item.Err)
		return
	}
	p.successf("%s", msg)
}

// finishBatch renders report and applies --strict.
func finishBatch(cmd *cobra.Command, report *domain.BatchReport) error {
	renderReport(newPrinter(cmd.OutOrStdout()), report)
	if strict && report.HasFailures() {
		return &ExitError{Code: 1}
	}
	return nil
}

// hint suggests a next step for common failures.
func hint(err error) string {
	switch {
	case errors.Is(err, domain.ErrParse):
		return "Check project.toml for syntax errors and a non-empty [project] name."
	case errors.Is(err, domain.ErrNotFound):
		return "Run ppm from a project directory, or create one with 'ppm new <name>' or 'ppm init <name>'."
	case errors.Is(err, domain.ErrAlreadyExists):
		return "Choose a different name or remove the existing project first."
	case errors.Is(err, domain.ErrInvalidVersionFormat):
		return "Versions must look like MAJOR.MINOR.PATCH, for example 1.4.2."
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		return "Set shell.kind to posix or cmd in ~/.config/ppm/config.yaml."
	default:
		return ""
	}
}
