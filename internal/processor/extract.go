// Package processor turns raw article HTML into the metadata and readable
// content the catalog stores. It is a pure transformation; persistence and
// job completion stay with the caller.
package processor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Result carries everything extracted from one article page.
type Result struct {
	Title        string
	Author       string
	OpenGraph    map[string]string
	Twitter      map[string]string
	FullHTML     string
	FullTextHTML string
}

// Extract parses html, collecting Open Graph and Twitter Card metadata plus
// the readable main-text HTML. srcURL may be empty; it is only used to
// resolve relative references during readability extraction.
func Extract(html []byte, srcURL string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	result := &Result{
		OpenGraph: make(map[string]string),
		Twitter:   make(map[string]string),
		FullHTML:  string(html),
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		prop := strings.ToLower(sel.AttrOr("property", ""))
		name := strings.ToLower(sel.AttrOr("name", ""))
		switch {
		case strings.HasPrefix(prop, "og:"):
			result.OpenGraph[strings.TrimPrefix(prop, "og:")] = content
		case strings.HasPrefix(name, "twitter:"):
			result.Twitter[strings.TrimPrefix(name, "twitter:")] = content
		case strings.HasPrefix(prop, "twitter:"):
			// some sites emit twitter cards as property attributes
			result.Twitter[strings.TrimPrefix(prop, "twitter:")] = content
		case name == "author":
			result.Author = content
		}
	})

	result.Title = result.OpenGraph["title"]
	if result.Title == "" {
		result.Title = result.Twitter["title"]
	}
	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var pageURL *url.URL
	if srcURL != "" {
		pageURL, _ = url.Parse(srcURL)
	}
	if article, err := readability.FromReader(bytes.NewReader(html), pageURL); err == nil {
		result.FullTextHTML = article.Content
		if result.Author == "" {
			result.Author = strings.TrimSpace(article.Byline)
		}
		if result.Title == "" {
			result.Title = strings.TrimSpace(article.Title)
		}
	}
	return result, nil
}
