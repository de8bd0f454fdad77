package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

// readmeTopics extracts the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is
	// listed in readme.md.
	listed := readmeTopics(t)
	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		if base != "readme" && !slices.Contains(listed, base) {
			t.Errorf("topic %q is not listed in readme.md", base)
		}
	}
}

func TestAllTopics(t *testing.T) {
	topics, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"config", "market", "positions", "server", "trades"}
	if !slices.Equal(topics, want) {
		t.Errorf("AllTopics() = %v, want %v", topics, want)
	}

	all, err := Topic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, heading := range []string{"# Configuration", "# Market data", "# Positions", "# Server", "# Trades"} {
		if !strings.Contains(all, heading) {
			t.Errorf("Topic(*) does not contain %q", heading)
		}
	}

	if _, err := Topic("nope"); err == nil {
		t.Errorf("Topic(nope) succeeded")
	}
}
