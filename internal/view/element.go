package view

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Handler runs when an element is activated.
type Handler func(ctx context.Context) error

// Element is one node of the rendered tree.
type Element struct {
	ID       string
	Classes  []string
	Data     []html.Attribute // data-* attributes, in insertion order
	Title    string
	Text     string
	Children []*Element
	OnClick  Handler
}

func Div(classes ...string) *Element {
	return &Element{Classes: classes}
}

func (e *Element) AddClass(c ...string) *Element {
	e.Classes = append(e.Classes, c...)
	return e
}

func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

func (e *Element) SetData(key, val string) *Element {
	for i := range e.Data {
		if e.Data[i].Key == key {
			e.Data[i].Val = val
			return e
		}
	}
	e.Data = append(e.Data, html.Attribute{Key: key, Val: val})
	return e
}

func (e *Element) DataValue(key string) (string, bool) {
	for _, a := range e.Data {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Walk visits e and its descendants depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Node converts the element into an html node. Activatable elements carry
// data-action with their id.
func (e *Element) Node() *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	if e.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: e.ID})
	}
	if len(e.Classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.Classes, " ")})
	}
	for _, a := range e.Data {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-" + a.Key, Val: a.Val})
	}
	if e.Title != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "title", Val: e.Title})
	}
	if e.OnClick != nil && e.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-action", Val: e.ID})
	}
	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, c := range e.Children {
		n.AppendChild(c.Node())
	}
	return n
}

// RenderHTML serializes a list of sibling elements.
func RenderHTML(elems []*Element) (string, error) {
	var buf bytes.Buffer
	for _, e := range elems {
		if err := html.Render(&buf, e.Node()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
