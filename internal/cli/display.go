package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tenk/internal/domain"
)

var (
	answerStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printResponse renders a query response for the terminal.
func printResponse(resp domain.Response) {
	fmt.Println(answerStyle.Render(resp.Answer))

	if len(resp.Citations) > 0 {
		fmt.Println(headingStyle.Render("Citations:"))
		for i, c := range resp.Citations {
			fmt.Println(citationStyle.Render(fmt.Sprintf("  [%d] %s", i+1, formatCitation(c))))
		}
	}

	if len(resp.ToolsUsed) > 0 {
		fmt.Println(headingStyle.Render("Tools used: ") + strings.Join(resp.ToolsUsed, ", "))
	}

	for _, e := range resp.Errors {
		fmt.Println(warningStyle.Render("Warning: " + e))
	}
}

// formatCitation renders one citation line: document citations show
// section, page and cross references; web citations show title and URL.
func formatCitation(c domain.Citation) string {
	if c.SourceType == domain.SourceWeb {
		if c.Title != "" {
			return fmt.Sprintf("%s (%s)", c.Title, c.URL)
		}
		return c.URL
	}

	line := fmt.Sprintf("%s (page %s): %q", c.Section, c.Page, c.Text)
	if len(c.CrossRefs) > 0 {
		var refs []string
		for _, r := range c.CrossRefs {
			refs = append(refs, r.Matched)
		}
		line += " refs: " + strings.Join(refs, ", ")
	}
	return line
}
