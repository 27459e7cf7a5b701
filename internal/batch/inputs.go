package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadPlateFile reads a newline-delimited plate list. Leading/trailing
// whitespace is dropped, blank lines are skipped, and lines whose first
// non-whitespace character is '#' are comments.
func ReadPlateFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plate file: %w", err)
	}
	defer f.Close()

	var plates []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		plates = append(plates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read plate file: %w", err)
	}
	return plates, nil
}
