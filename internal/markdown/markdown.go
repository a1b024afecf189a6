// Package markdown extracts link destinations from Markdown documents.
//
// It is an analysis API: documents are never re-rendered. Bare URLs in running
// text count as links (GFM autolink behaviour).
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// ExtractLinks parses a Markdown body and returns the destinations of inline
// links, images, autolinks and reference definitions in document order.
// Code spans and code blocks are not inspected.
func ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		var link Link
		switch node := n.(type) {
		case *gmast.AutoLink:
			link = Link{Kind: LinkKindAuto, Destination: string(node.URL(body))}
		case *gmast.Image:
			link = Link{Kind: LinkKindImage, Destination: string(node.Destination)}
		case *gmast.Link:
			link = Link{Kind: LinkKindInline, Destination: string(node.Destination)}
		default:
			return gmast.WalkContinue, nil
		}
		link.Line = lineOf(body, n, link.Destination)
		links = append(links, link)
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		dest := string(ref.Destination())
		links = append(links, Link{
			Kind:        LinkKindReferenceDefinition,
			Destination: dest,
			Line:        lineAt(body, bytes.Index(body, ref.Destination())),
		})
	}

	return links
}

// lineOf locates dest inside the nearest enclosing block and returns its line.
func lineOf(body []byte, n gmast.Node, dest string) int {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() != gmast.TypeBlock {
			continue
		}
		lines := p.Lines()
		if lines == nil || lines.Len() == 0 {
			continue
		}
		start := lines.At(0).Start
		if idx := bytes.Index(body[start:], []byte(dest)); idx >= 0 {
			return lineAt(body, start+idx)
		}
		return lineAt(body, start)
	}
	return lineAt(body, bytes.Index(body, []byte(dest)))
}

func lineAt(body []byte, offset int) int {
	if offset < 0 {
		return 0
	}
	return bytes.Count(body[:offset], []byte("\n")) + 1
}
