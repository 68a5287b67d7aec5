package render

import (
	"fmt"
	"strings"

	"github.com/yildizm/ResumeScreen/internal/session"
)

// markdownRenderer renders outcomes as a Markdown report
type markdownRenderer struct{}

// NewMarkdown creates a Markdown renderer
func NewMarkdown() Renderer {
	return &markdownRenderer{}
}

func (r *markdownRenderer) Render(outcome session.Outcome) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Resume Classification\n\n")

	switch o := outcome.(type) {
	case session.Success:
		r.writeSuccess(&b, o)
	case session.Failure:
		fmt.Fprintf(&b, "> **Error:** %s\n", o.Message)
	default:
		return nil, fmt.Errorf("unsupported outcome %T", outcome)
	}

	return []byte(b.String()), nil
}

func (r *markdownRenderer) writeSuccess(b *strings.Builder, s session.Success) {
	fmt.Fprintf(b, "**Predicted category:** %s\n\n", escapeCell(s.PredictedCategory))
	fmt.Fprintf(b, "**Confidence:** %s%%\n\n", formatConfidence(s.ConfidencePercent))

	if len(s.TopPredictions) == 0 {
		return
	}

	fmt.Fprintf(b, "## Top %d Predictions\n\n", session.MaxTopPredictions)
	b.WriteString("| Rank | Category | Confidence |\n")
	b.WriteString("|------|----------|------------|\n")
	for i, p := range s.TopPredictions {
		fmt.Fprintf(b, "| %d | %s | %.2f%% |\n", i+1, escapeCell(p.Category), p.ConfidencePercent)
	}
}

// escapeCell keeps category names from breaking table rows
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
