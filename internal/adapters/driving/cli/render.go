package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

const maxWrap = 100

// terminalWidth returns w's width when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return maxWrap
	}
	return width
}

// renderMarkdown styles markdown for a terminal of the given width.
// Width 0 means plain output and returns text unchanged.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		return text
	}
	width = min(width, maxWrap)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// percent formats a score in [0,1] as a whole percentage.
func percent(score float64) string {
	score = math.Max(0, math.Min(1, score))
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

// writeResult prints a query result for people.
func writeResult(w io.Writer, result *domain.QueryResult, width int) {
	fmt.Fprintln(w, renderMarkdown(result.Answer, width))
	if result.Degraded {
		fmt.Fprintln(w, "\n(no generated answer; showing the closest documentation excerpts)")
	}

	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for i, src := range result.Sources {
			fmt.Fprintf(w, "  [%d] %s (%s)\n", i+1, src.Title, percent(src.RelevanceScore))
			if src.URL != "" {
				fmt.Fprintf(w, "      %s\n", src.URL)
			}
		}
	}
	fmt.Fprintf(w, "\nConfidence: %s\n", percent(result.Confidence))
}

// writeExamples prints the suggested questions grouped by category.
func writeExamples(w io.Writer) {
	category := ""
	for _, ex := range domain.ExampleQueries() {
		if ex.Category != category {
			if category != "" {
				fmt.Fprintln(w)
			}
			category = ex.Category
			fmt.Fprintf(w, "%s:\n", category)
		}
		fmt.Fprintf(w, "  - %s\n", ex.Text)
	}
}
