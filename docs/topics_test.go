package docs

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"testing"
)

// TestTopics keeps readme.md and the topic files in sync: every topic the
// readme lists must load, and every topic file must be listed.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	for _, name := range all {
		found := false
		for _, topic := range listed {
			if topic == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", name)
		}
	}
}

func TestTopicStar(t *testing.T) {
	body, err := Topic("*")
	if err != nil {
		t.Fatalf("Topic(*): %v", err)
	}
	for _, want := range []string{"# Pricing", "# Trade Journal", "# Capital Challenge"} {
		if !strings.Contains(body, want) {
			t.Errorf("expanded topics missing %q", want)
		}
	}
}

func TestTopicUnknown(t *testing.T) {
	if _, err := Topic("nope"); err == nil {
		t.Error("unknown topic loaded")
	}
}
