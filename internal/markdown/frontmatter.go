package markdown

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/adrg/frontmatter"
)

// FrontMatter carries the post metadata the pipeline needs. ID is the stable
// post identifier; its absence is a data-quality problem for the caller to
// report, not an error here.
type FrontMatter struct {
	ID    string
	Title string
	Draft bool
}

type frontMatterEnvelope struct {
	ID     any            `yaml:"id"`
	Title  string         `yaml:"title"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into front matter and markdown body. A
// document without front matter yields empty metadata and the full body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return FrontMatter{ID: formatID(env.ID), Title: env.Title, Draft: env.Draft}, body, nil
}

// formatID renders the front-matter id as a string. YAML decodes bare
// numeric ids as integers, and those must stringify the same on every run.
func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}
