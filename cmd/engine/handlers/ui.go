package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorDim   = lipgloss.Color("#6b7280")

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// errDeleteAborted is returned when the user declines a deletion.
var errDeleteAborted = errors.New("deletion aborted")

var (
	// stdinIsTerminal reports whether the user can answer a prompt.
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// askConfirmation prompts the user.
	askConfirmation = func(ctx context.Context, title string) (bool, error) {
		var confirmed bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description("This cannot be undone.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		).RunWithContext(ctx)
		return confirmed, err
	}

	// output receives the command summaries.
	output io.Writer = os.Stdout
)

// confirmDelete asks before deleting what. yes skips the question.
func confirmDelete(ctx context.Context, what string, yes bool) error {
	if yes {
		return nil
	}
	if !stdinIsTerminal() {
		return fmt.Errorf("refusing to delete %s without --yes in a non-interactive session", what)
	}

	confirmed, err := askConfirmation(ctx, fmt.Sprintf("Delete %s?", what))
	if err != nil {
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !confirmed {
		return errDeleteAborted
	}
	return nil
}

func printSuccess(msg, executionID string) {
	fmt.Fprintln(output, successStyle.Render("✓ ")+msg)
	fmt.Fprintln(output, dimStyle.Render("  execution "+executionID))
}
