package output

import "strings"

// Format specifies the manifest output format.
type Format string

const (
	// FormatYAML outputs multi-document YAML.
	FormatYAML Format = "yaml"

	// FormatJSON outputs a JSON array.
	FormatJSON Format = "json"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is supported.
func (f Format) IsValid() bool {
	return f == FormatYAML || f == FormatJSON
}

// ParseFormat parses a string into a Format. Empty means YAML. Unknown
// values are returned as-is so IsValid can reject them.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	default:
		return Format(s)
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"yaml", "json"}
}
