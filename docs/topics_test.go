package docs_test

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/gains/cmd"
	"github.com/etnz/gains/docs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every markdown file
	// is listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	if _, err := docs.GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope): want an error")
	}
	content, err := docs.GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) unexpected error: %v", err)
	}
	if strings.Contains(content, "Run `cgt topic <topic>`") {
		t.Error("GetTopics(*) includes the readme")
	}
}

// TestConfigExample loads the configuration documented in config.md.
func TestConfigExample(t *testing.T) {
	blocks := fencedBlocks(t, "config.md", "yaml")
	if len(blocks) == 0 {
		t.Fatal("config.md has no yaml block")
	}
	name := filepath.Join(t.TempDir(), "cgt.yaml")
	if err := os.WriteFile(name, []byte(blocks[0]), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := cmd.LoadSettings(name)
	if err != nil {
		t.Fatalf("LoadSettings() of the documented example: %v", err)
	}
	if s.CoinMarketCap.Overrides["cpc"] != "cpchain" {
		t.Errorf("Overrides = %v, want cpc: cpchain", s.CoinMarketCap.Overrides)
	}
}

// fencedBlocks returns the content of the fenced code blocks of file in
// language lang.
func fencedBlocks(t *testing.T, file, lang string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Info.Segment.Value(content)) != lang {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}
