// Package ingest reads audit input documents from disk and normalizes them
// to plain text.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// maxFileBytes caps input size; legal documents are text and stay far below
const maxFileBytes = 20 * 1024 * 1024

// Document is the normalized content of one input file
type Document struct {
	// Title derived from the file name, overridable by the caller
	Title string

	// Content is plain text ready for citation extraction
	Content string

	// Format is the detected input format: "text", "markdown", "html"
	Format string
}

// ReadFile reads and normalizes a document. Plain text and Markdown are kept
// as-is, HTML is reduced to its visible text. Binary formats such as PDF or
// DOCX are rejected: text extraction for those happens upstream.
func ReadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxFileBytes)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var format string
	switch ext {
	case ".txt", "":
		format = "text"
	case ".md", ".markdown":
		format = "markdown"
	case ".html", ".htm":
		format = "html"
	case ".pdf", ".docx", ".doc", ".odt":
		return nil, fmt.Errorf("unsupported format %s: convert to text before auditing", ext)
	default:
		return nil, fmt.Errorf("unsupported format %s (supported: .txt, .md, .html)", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := string(raw)
	if format == "html" {
		content, err = visibleText(content)
		if err != nil {
			return nil, fmt.Errorf("parse HTML: %w", err)
		}
	}

	return &Document{
		Title:   TitleFromPath(path),
		Content: content,
		Format:  format,
	}, nil
}

// TitleFromPath derives a document title from the file name
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}
