package config

import (
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the embedded defaults with every value
// commented out, ready to be written as a starter config file.
func GenerateConfigContent() string {
	return commentOutConfigValues(string(defaultConfig))
}

// WriteTOML encodes cfg as TOML.
func WriteTOML(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Section headers stay so uncommenting a value lands in the right table
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
