package loader

import (
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

type format string

const (
	formatMarkdown format = "markdown"
	formatHTML     format = "html"
	formatText     format = "text"
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return formatMarkdown
	case ".html", ".htm":
		return formatHTML
	default:
		return formatText
	}
}

// parsed is the text and metadata extracted from one file.
type parsed struct {
	title     string
	canonical string
	content   string
}

// frontMatter is the optional YAML header of a markdown page.
type frontMatter struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// parseMarkdown reads optional front matter and takes the title from it or
// from the first level-one heading. Content keeps the heading.
func parseMarkdown(text string) parsed {
	var page parsed
	body := text

	if rest, header, ok := splitFrontMatter(text); ok {
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(header), &fm); err == nil {
			page.title = strings.TrimSpace(fm.Title)
			page.canonical = strings.TrimSpace(fm.URL)
			body = rest
		}
	}

	if page.title == "" {
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "# ") {
				page.title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
				break
			}
		}
	}
	page.content = strings.TrimSpace(body)
	return page
}

// splitFrontMatter splits a leading "---" delimited block from text.
func splitFrontMatter(text string) (rest, header string, ok bool) {
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return text, "", false
	}
	after := text[strings.Index(text, "\n")+1:]
	end := strings.Index(after, "\n---")
	if end < 0 {
		return text, "", false
	}
	header = after[:end]
	rest = after[end+len("\n---"):]
	if i := strings.Index(rest, "\n"); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}
	return rest, header, true
}

// boilerplate is removed from HTML pages before conversion.
const boilerplate = "script, style, noscript, nav, header, footer, aside, form, iframe"

// parseHTML extracts title and canonical URL and converts the main content
// to markdown.
func parseHTML(html string) (parsed, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return parsed{}, err
	}

	var page parsed
	page.title = strings.TrimSpace(doc.Find("title").First().Text())
	if page.title == "" {
		page.title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		page.canonical = strings.TrimSpace(href)
	}

	doc.Find(boilerplate).Remove()

	main := doc.Find("main, article").First()
	if main.Length() == 0 {
		main = doc.Find("body")
	}

	converter := md.NewConverter("", true, &md.Options{CodeBlockStyle: "fenced"})
	page.content = cleanMarkdown(converter.Convert(main))
	return page, nil
}

// cleanMarkdown collapses runs of blank lines.
func cleanMarkdown(markdown string) string {
	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
