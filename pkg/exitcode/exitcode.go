// Package exitcode provides standardized exit codes for specex
package exitcode

// Exit codes for the specex CLI
const (
	Success = 0
	// GeneralError covers unexpected failures such as unreadable input.
	GeneralError = 1
	ConfigError  = 2
	// ValidationError means at least one example failed.
	ValidationError = 3
	// FileSystemError means a fixture could not be written and the run stopped.
	FileSystemError   = 4
	UnsupportedFormat = 8
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case UnsupportedFormat:
		return "Unsupported format"
	default:
		return "Unknown error"
	}
}
