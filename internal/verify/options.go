package verify

import "strings"

// ParseOptions reads a data-options value: comma separated key=value pairs
// where true and false become booleans. validate is on unless set.
func ParseOptions(s string) map[string]any {
	opts := make(map[string]any)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch value {
		case "true":
			opts[key] = true
		case "false":
			opts[key] = false
		default:
			opts[key] = value
		}
	}
	if _, ok := opts["validate"]; !ok {
		opts["validate"] = true
	}
	return opts
}
