package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/vinayprograms/resumerag/catalog"
	"github.com/vinayprograms/resumerag/matcher"
)

var (
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1).Width(80)
	filenameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	scoreStyle    = lipgloss.NewStyle().Faint(true)

	successLabel = color.New(color.FgGreen).SprintFunc()
	failedLabel  = color.New(color.FgRed).SprintFunc()
)

const noResults = "No results found."

// renderFileResults prints one line per uploaded file.
func renderFileResults(w io.Writer, results []matcher.FileResult) (failed int) {
	for _, r := range results {
		if r.Status == matcher.StatusSuccess {
			fmt.Fprintf(w, "%s  %s\n", successLabel("success"), r.Filename)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s   %s: %s\n", failedLabel("failed"), r.Filename, r.Error)
	}
	return failed
}

// renderCard draws one ranked resume.
func renderCard(r matcher.Result) string {
	header := filenameStyle.Render(r.Filename) + "  " + scoreStyle.Render(fmt.Sprintf("score %.4f", r.Score))
	return cardStyle.Render(header + "\n\n" + r.Snippet)
}

// renderResults prints ranked resumes best first.
func renderResults(w io.Writer, results []matcher.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, noResults)
		return
	}
	cards := make([]string, len(results))
	for i, r := range results {
		cards[i] = renderCard(r)
	}
	fmt.Fprintln(w, strings.Join(cards, "\n"))
}

// renderEntries prints the catalog as a table.
func renderEntries(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, noResults)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%5d  %-40s %8d chars\n", e.Position, e.Filename, e.Characters)
	}
}
