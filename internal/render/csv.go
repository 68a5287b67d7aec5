package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/ResumeScreen/internal/session"
)

// csvRenderer writes one row per ranked prediction
type csvRenderer struct{}

// NewCSV creates a CSV renderer
func NewCSV() Renderer {
	return &csvRenderer{}
}

func (r *csvRenderer) Render(outcome session.Outcome) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	var records [][]string
	switch o := outcome.(type) {
	case session.Success:
		records = append(records, []string{"Rank", "Category", "Confidence", "Predicted"})
		for i, p := range o.TopPredictions {
			records = append(records, []string{
				strconv.Itoa(i + 1),
				p.Category,
				strconv.FormatFloat(p.ConfidencePercent, 'f', 2, 64),
				strconv.FormatBool(p.Category == o.PredictedCategory),
			})
		}
	case session.Failure:
		records = append(records, []string{"Error Kind", "Message"}, []string{string(o.Kind), o.Message})
	default:
		return nil, fmt.Errorf("unsupported outcome %T", outcome)
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return b.Bytes(), nil
}
