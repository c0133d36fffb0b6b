package annotation

import (
	"fmt"
	"os"
	"strings"
)

const envPlaceholder = "$env{"

// ResolveEnv replaces every $env{NAME} placeholder in value with the value
// of the environment variable NAME. An unset variable is an error. Text
// substituted in is not scanned again.
func ResolveEnv(value string) (string, error) {
	start := strings.Index(value, envPlaceholder)
	if start < 0 {
		return value, nil
	}
	rest := value[start+len(envPlaceholder):]
	end := strings.Index(rest, "}")
	if end < 0 {
		return value, nil
	}

	name := strings.TrimSpace(rest[:end])
	resolved, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("error resolving value: %s is not set in the environment.", name)
	}

	tail, err := ResolveEnv(rest[end+1:])
	if err != nil {
		return "", err
	}
	return value[:start] + resolved + tail, nil
}
