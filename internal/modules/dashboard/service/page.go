package service

import (
	"embed"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed templates/index.html
var templatesFS embed.FS

const (
	SelectorCards  = "#cards"
	SelectorBoard  = "#board"
	SelectorInvite = "#invite"
	SelectorStatus = "#status"
)

// Page is an in-memory HTML document the renderer mutates.
type Page struct {
	doc *goquery.Document
}

func NewPage(markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// DefaultPage parses the embedded dashboard markup.
func DefaultPage() (*Page, error) {
	b, err := templatesFS.ReadFile("templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("read embedded dashboard page: %w", err)
	}
	return NewPage(string(b))
}

func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Text returns the text content of the first match.
func (p *Page) Text(selector string) string {
	return p.doc.Find(selector).First().Text()
}

func (p *Page) Attr(selector, name string) (string, bool) {
	return p.doc.Find(selector).First().Attr(name)
}

// Items returns the text of each direct child of the first match.
func (p *Page) Items(selector string) []string {
	var items []string
	p.doc.Find(selector).First().Children().Each(func(_ int, s *goquery.Selection) {
		items = append(items, s.Text())
	})
	return items
}

func newTextElement(tag atom.Atom, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
