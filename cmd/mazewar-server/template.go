package main

import (
	"bufio"
	"fmt"
	"os"
)

// loadTemplate reads a maze template file: one row per line, newline
// stripped. An empty path falls back to the compiled-in default maze.
func loadTemplate(path string) ([]string, error) {
	if path == "" {
		return defaultMaze, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("template %s is empty", path)
	}
	return lines, nil
}
