package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadEnvFile loads KEY=VALUE lines from filename into the process
// environment. Blank lines and # comments are skipped, and an "export "
// prefix is tolerated so a shell-style env file can be reused as-is.
func LoadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load env file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return fmt.Errorf("env file %s line %d: expected KEY=VALUE", filename, lineNo)
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("env file %s: set %s: %w", filename, key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read env file %s: %w", filename, err)
	}

	return nil
}
