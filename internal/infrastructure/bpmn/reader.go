package bpmn

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// Reader decodes raw document bytes into an element tree. Tags are matched
// by local name everywhere downstream, so vendor namespace prefixes
// (bpmn:, bpmn2:, none at all) make no difference.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Read(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, domain.WrapError(domain.ErrMalformedDocument, "decode xml", describeParseError(err))
	}
	if doc.Root() == nil {
		return nil, domain.WrapError(domain.ErrMalformedDocument, "decode xml", errors.New("document has no root element"))
	}
	return doc, nil
}

// describeParseError keeps the decoder's position information so a caller
// can point at the broken byte range without seeing the raw decoder error
// type.
func describeParseError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("line %d: %s", syntaxErr.Line, syntaxErr.Msg)
	}
	return err
}

// childrenByLocal returns every child element whose local tag matches name,
// regardless of namespace prefix. A single matching child and many matching
// children both come back as a slice, so callers always iterate one shape.
func childrenByLocal(el *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			out = append(out, child)
		}
	}
	return out
}

// firstByLocal returns the first child element with the given local tag, or
// nil when there is none.
func firstByLocal(el *etree.Element, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			return child
		}
	}
	return nil
}

// countStats walks the whole tree counting task-like and process elements.
// The counts come straight from the node structure, bypassing extraction, so
// the parsing audit can detect tasks lost further down the pipeline.
func countStats(doc *etree.Document) domain.ModelStats {
	var stats domain.ModelStats
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		switch el.Tag {
		case "task", "sendTask", "manualTask":
			stats.TaskElements++
		case "process":
			stats.ProcessElements++
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	if root := doc.Root(); root != nil {
		walk(root)
	}
	return stats
}
