package jira

import "strings"

// Doc is an Atlassian Document Format document.
type Doc struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func NewDoc(blocks ...Node) Doc {
	return Doc{Type: "doc", Version: 1, Content: blocks}
}

func (d *Doc) Append(blocks ...Node) {
	d.Content = append(d.Content, blocks...)
}

func Text(s string, marks ...Mark) Node {
	return Node{Type: "text", Text: s, Marks: marks}
}

func Strong() Mark { return Mark{Type: "strong"} }
func Em() Mark     { return Mark{Type: "em"} }

func Link(href string) Mark {
	return Mark{Type: "link", Attrs: map[string]any{"href": href}}
}

func Paragraph(inline ...Node) Node {
	return Node{Type: "paragraph", Content: inline}
}

func Heading(level int, s string) Node {
	return Node{Type: "heading", Attrs: map[string]any{"level": level}, Content: []Node{Text(s)}}
}

// Panel wraps blocks in an ADF panel; kind is info, note, warning, success or error.
func Panel(kind string, blocks ...Node) Node {
	return Node{Type: "panel", Attrs: map[string]any{"panelType": kind}, Content: blocks}
}

// Lines renders multi-line text as one paragraph joined by hard breaks.
func Lines(s string) Node {
	p := Paragraph()
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			p.Content = append(p.Content, Node{Type: "hardBreak"})
		}
		if strings.TrimSpace(line) != "" {
			p.Content = append(p.Content, Text(line))
		}
	}
	if len(p.Content) == 0 {
		p.Content = append(p.Content, Text(s))
	}
	return p
}

// TextDoc is a one-paragraph document for plain text.
func TextDoc(s string) Doc {
	return NewDoc(Lines(s))
}

// PlainText flattens a document back into text, one line per paragraph.
func (d Doc) PlainText() string {
	var b strings.Builder
	for _, n := range d.Content {
		writePlain(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writePlain(b *strings.Builder, n Node) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	}
	for _, c := range n.Content {
		writePlain(b, c)
	}
	if n.Type == "paragraph" || n.Type == "heading" {
		b.WriteString("\n")
	}
}
