package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// DefaultTag is attached to sources without an explicit tag
const DefaultTag = "#news"

// LoadSources reads the line-oriented sources file. Each line is a feed URL,
// optionally followed by "#" and a free-text tag. Blank lines and lines
// starting with "#" are skipped.
func LoadSources(path string) ([]domain.Source, error) {
	f, err := os.Open(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer f.Close()

	var sources []domain.Source
	seen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		url, tag := line, DefaultTag
		if idx := strings.Index(line, "#"); idx >= 0 {
			url = strings.TrimSpace(line[:idx])
			tag = "#" + strings.TrimSpace(line[idx+1:])
		}

		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return nil, fmt.Errorf("line %d: invalid feed URL %q", lineNum, url)
		}
		if seen[url] {
			continue // identity is the URL, keep the first occurrence
		}
		seen[url] = true

		sources = append(sources, domain.Source{URL: url, Tag: tag})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources in %s", path)
	}

	return sources, nil
}
