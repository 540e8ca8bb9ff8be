package format

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPrettifyJSON(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		indent         string
		sizeWarningMB  int
		expectedOutput string
		expectChanged  bool
		expectError    bool
	}{
		{
			name:           "Valid JSON with indentation",
			input:          `{"key":"value"}`,
			indent:         "  ",
			sizeWarningMB:  500,
			expectedOutput: "{\n  \"key\": \"value\"\n}",
			expectChanged:  true,
			expectError:    false,
		},
		{
			name:           "Already formatted JSON",
			input:          "{\n  \"key\": \"value\"\n}",
			indent:         "  ",
			sizeWarningMB:  500,
			expectedOutput: "{\n  \"key\": \"value\"\n}",
			expectChanged:  false,
			expectError:    false,
		},
		{
			name:           "Invalid JSON",
			input:          `{"key":}`,
			indent:         "  ",
			sizeWarningMB:  500,
			expectedOutput: "",
			expectChanged:  false,
			expectError:    true,
		},
		{
			name:           "Compact indent",
			input:          `{"key":"value","another":"test"}`,
			indent:         "",
			sizeWarningMB:  500,
			expectedOutput: "{\"key\":\"value\",\"another\":\"test\"}",
			expectChanged:  false,
			expectError:    false,
		},
		{
			name:           "Tab indent",
			input:          `{"key":"value"}`,
			indent:         "\t",
			sizeWarningMB:  500,
			expectedOutput: "{\n\t\"key\": \"value\"\n}",
			expectChanged:  true,
			expectError:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, changed, err := PrettifyJSON([]byte(tt.input), tt.indent, tt.sizeWarningMB)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if changed != tt.expectChanged {
				t.Errorf("Expected changed=%v, got %v", tt.expectChanged, changed)
			}

			// For compact mode, just check that it's valid JSON and compact
			if tt.indent == "" {
				if !json.Valid(output) {
					t.Errorf("Output is not valid JSON: %q", string(output))
				}
				if strings.Contains(string(output), "\n") {
					t.Errorf("Compact mode should not contain newlines: %q", string(output))
				}
			} else {
				if strings.TrimSpace(string(output)) != strings.TrimSpace(tt.expectedOutput) {
					t.Errorf("Expected output %q, got %q", tt.expectedOutput, string(output))
				}
			}
		})
	}
}

func TestJSONValue(t *testing.T) {
	got := JSONValue(map[string]any{"@id": "http://example.org/a"})
	if got != "{\n  \"@id\": \"http://example.org/a\"\n}" {
		t.Errorf("unexpected rendering %q", got)
	}
	if got := JSONValue(func() {}); !strings.HasPrefix(got, "0x") {
		t.Errorf("expected fallback formatting, got %q", got)
	}
}

func TestPrettifyMarkup(t *testing.T) {
	input := "<table><tr><td>a&nbsp;</td></tr></table>"
	out, changed, err := PrettifyMarkup([]byte(input), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Errorf("expected indentation to change the markup")
	}
	if !strings.Contains(string(out), "\n  <tr>") {
		t.Errorf("expected indented rows, got %q", string(out))
	}

	same, changed, err := PrettifyMarkup([]byte(input), 0)
	if err != nil || changed || string(same) != input {
		t.Errorf("zero indent should return input unchanged")
	}

	if _, _, err := PrettifyMarkup([]byte("<table><tr"), 2); err == nil {
		t.Errorf("expected error for truncated markup")
	}
}
