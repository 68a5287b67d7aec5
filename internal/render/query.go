package render

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Query applies a JMESPath expression to a JSON document and returns the
// indented result. A null result renders as "null".
func Query(doc []byte, expression string) ([]byte, error) {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	if result == nil {
		return []byte("null"), nil
	}

	return json.MarshalIndent(result, "", "  ")
}

// ValidQuery reports whether expression compiles
func ValidQuery(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
