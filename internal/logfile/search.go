package logfile

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Match is a single search hit within a log file.
type Match struct {
	File string
	Line int
	Text string
}

// Search greps the given files for query, case-insensitively. Unreadable
// files are skipped with a logged warning so one bad file never sinks the
// whole search. Matches are returned in file order, then line order.
func Search(ctx context.Context, paths []string, query string) ([]Match, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	var matches []Match
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := searchFile(ctx, path, query)
		if err != nil {
			log.Printf("search: skipping %s: %v", path, err)
			continue
		}
		matches = append(matches, found...)
	}
	return matches, nil
}

func searchFile(ctx context.Context, path, query string) ([]Match, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var matches []Match
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := scanner.Text()
		if strings.Contains(strings.ToLower(text), query) {
			matches = append(matches, Match{File: path, Line: line, Text: strings.TrimSpace(text)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
