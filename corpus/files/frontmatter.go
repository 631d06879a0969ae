package files

import (
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	Title   string    `yaml:"title"`
	Tags    tagList   `yaml:"tags"`
	Created time.Time `yaml:"created"`
	Date    time.Time `yaml:"date"`
}

// tagList accepts both a YAML sequence and a comma separated scalar.
type tagList []string

func (t *tagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				*t = append(*t, tag)
			}
		}
		return nil
	default:
		var tags []string
		if err := value.Decode(&tags); err != nil {
			return err
		}
		*t = tags
		return nil
	}
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// body. Content without a terminated block is returned unchanged.
func splitFrontMatter(content string) (meta frontMatter, body string, err error) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "---" {
		return meta, content, nil
	}

	var block strings.Builder
	offset := len(lines[0])
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "---" {
			if err := yaml.Unmarshal([]byte(block.String()), &meta); err != nil {
				return frontMatter{}, content, err
			}
			return meta, strings.TrimLeft(content[offset+len(line):], "\r\n"), nil
		}
		block.WriteString(line)
		offset += len(line)
	}
	return meta, content, nil
}

var inlineTag = regexp.MustCompile(`(?:^|\s)#([A-Za-z][\w/-]*)`)

// inlineTags returns the distinct #tags in body in order of appearance.
func inlineTags(body string) []string {
	var tags []string
	for _, m := range inlineTag.FindAllStringSubmatch(body, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// heading returns the text of the first level-one markdown heading.
func heading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

func mergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
