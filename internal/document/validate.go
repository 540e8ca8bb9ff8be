package document

// Validate parses markup strictly and returns every problem found. An empty
// result means the markup is well formed.
func Validate(markup string) []ParseError {
	return ParseString(markup).Errors
}
