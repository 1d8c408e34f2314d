package placeholders

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
//
// Example:
//
//	values, err := ParseKeyValuePairs([]string{"applicationId=com.example", "hostName=example.com"})
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not in key=value format (example: --param hostName=example.com)", pair)
		}

		if key == "" {
			return nil, fmt.Errorf("parameter has empty key: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}

// ParseEnvFile parses params-file content in .env format: KEY=VALUE lines,
// # comments, optional quoting.
func ParseEnvFile(content []byte) (map[string]string, error) {
	values, err := godotenv.UnmarshalBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}
	return values, nil
}

// Layer merges value layers, later layers winning on key collisions.
func Layer(layers ...map[string]string) map[string]string {
	result := map[string]string{}
	for _, layer := range layers {
		for k, v := range layer {
			result[k] = v
		}
	}
	return result
}
