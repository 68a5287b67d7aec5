package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/ResumeScreen/internal/emoji"
	"github.com/yildizm/ResumeScreen/internal/session"
	"github.com/yildizm/go-termfmt"
)

// terminalRenderer renders plain text for terminal display using go-termfmt
type terminalRenderer struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a terminal renderer
func NewTerminal(o Options) Renderer {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	return &terminalRenderer{opts: opts}
}

func (r *terminalRenderer) Render(outcome session.Outcome) ([]byte, error) {
	var b strings.Builder

	switch o := outcome.(type) {
	case session.Success:
		r.writePrediction(&b, o)
		r.writeTopPredictions(&b, o.TopPredictions)
	case session.Failure:
		r.writeFailure(&b, o)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported outcome %T", outcome)
	}

	return []byte(b.String()), nil
}

// writePrediction writes the predicted category and its confidence
func (r *terminalRenderer) writePrediction(b *strings.Builder, s session.Success) {
	fmt.Fprintf(b, "%s Predicted Category\n", emoji.GetEmoji("target"))
	b.WriteString(s.PredictedCategory + "\n")
	fmt.Fprintf(b, "Confidence: %s%%\n", formatConfidence(s.ConfidencePercent))
}

// writeTopPredictions writes the ranked alternatives in the order given
func (r *terminalRenderer) writeTopPredictions(b *strings.Builder, top []session.Prediction) {
	if len(top) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s Top %d Predictions:\n", emoji.GetEmoji("ranking"), session.MaxTopPredictions)
	for i, p := range top {
		bar := termfmt.CreateConfidenceBar(clampFraction(p.ConfidencePercent/100), r.opts)
		fmt.Fprintf(b, "%d. %s  %.2f%% %s\n", i+1, p.Category, p.ConfidencePercent, bar)
	}
}

func (r *terminalRenderer) writeFailure(b *strings.Builder, f session.Failure) {
	b.WriteString(emoji.GetEmoji("warning") + " " + f.Message + "\n")
}

// formatConfidence prints the server value as received, without padding zeros
func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
