package render

import (
	"encoding/json"
	"fmt"

	"github.com/yildizm/ResumeScreen/internal/session"
)

// jsonRenderer renders outcomes as JSON
type jsonRenderer struct{}

// NewJSON creates a JSON renderer
func NewJSON() Renderer {
	return &jsonRenderer{}
}

// JSONOutput is the JSON document written for an outcome
type JSONOutput struct {
	Success bool             `json:"success"`
	Result  *session.Success `json:"result,omitempty"`
	Error   *session.Failure `json:"error,omitempty"`
}

func (r *jsonRenderer) Render(outcome session.Outcome) ([]byte, error) {
	var out JSONOutput

	switch o := outcome.(type) {
	case session.Success:
		out.Success = true
		out.Result = &o
	case session.Failure:
		out.Error = &o
	default:
		return nil, fmt.Errorf("unsupported outcome %T", outcome)
	}

	return json.MarshalIndent(out, "", "  ")
}
