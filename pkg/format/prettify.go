// Package format renders example bodies and results for human reading.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/beevik/etree"
	"github.com/fulmenhq/specex/pkg/logger"
)

// PrettifyJSON re-indents JSON content. An empty indent produces compact
// output. It returns the output and whether it differs from input.
func PrettifyJSON(input []byte, indent string, sizeWarningMB int) ([]byte, bool, error) {
	if !json.Valid(input) {
		return nil, false, fmt.Errorf("invalid JSON")
	}

	if sizeWarningMB > 0 && len(input) > sizeWarningMB*1024*1024 {
		logger.Warn("Processing very large JSON body", logger.Int("threshold_mb", sizeWarningMB))
	}

	var buf bytes.Buffer
	if indent == "" {
		if err := json.Compact(&buf, input); err != nil {
			return nil, false, err
		}
	} else if err := json.Indent(&buf, input, "", indent); err != nil {
		return nil, false, err
	}

	output := buf.Bytes()
	return output, !bytes.Equal(input, output), nil
}

// JSONValue renders a decoded JSON value with two-space indentation. Values
// that cannot be marshaled are printed with %v.
func JSONValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	out, _, err := PrettifyJSON(data, "  ", 0)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// PrettifyMarkup re-indents an HTML fragment such as a statement table.
// Parsing is permissive and knows the nbsp entity, so typical document markup
// is accepted; anything etree rejects is returned as an error.
func PrettifyMarkup(input []byte, indent int) ([]byte, bool, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.Entity = map[string]string{"nbsp": "\u00a0"}
	if err := doc.ReadFromBytes(input); err != nil {
		return nil, false, fmt.Errorf("markup is not well-formed: %v", err)
	}
	if indent <= 0 {
		return input, false, nil
	}
	doc.Indent(indent)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, false, fmt.Errorf("failed to format markup: %v", err)
	}
	output := buf.Bytes()
	return output, !bytes.Equal(input, output), nil
}
