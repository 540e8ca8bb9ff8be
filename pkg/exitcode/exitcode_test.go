/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package exitcode

import (
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	if Success != 0 {
		t.Errorf("Success = %v, expected 0", Success)
	}
	if GeneralError != 1 {
		t.Errorf("GeneralError = %v, expected 1", GeneralError)
	}
	if ConfigError != 2 {
		t.Errorf("ConfigError = %v, expected 2", ConfigError)
	}
	if ValidationError != 3 {
		t.Errorf("ValidationError = %v, expected 3", ValidationError)
	}
	if FileSystemError != 4 {
		t.Errorf("FileSystemError = %v, expected 4", FileSystemError)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{ValidationError, "Validation error"},
		{FileSystemError, "File system error"},
		{UnsupportedFormat, "Unsupported format"},
		{999, "Unknown error"},
	}

	for _, test := range tests {
		if result := String(test.code); result != test.expected {
			t.Errorf("String(%d) = %v, expected %v", test.code, result, test.expected)
		}
	}
}
