// Package display selects one of three output shapes — pretty (human),
// compact JSON, or pretty JSON — based on the --json / --json-pretty CLI
// flags, and prints domain entities through a two-method Displayable
// contract.
package display

import (
	"encoding/json"
	"fmt"
	"io"
)

// Shape is one of the three output renderings.
type Shape int

const (
	Pretty Shape = iota
	JSONCompact
	JSONPretty
)

// ShapeFromFlags mirrors the CLI's two global flags: --json selects
// compact JSON, --json-pretty selects indented JSON, and the absence of
// both selects the pretty human shape. --json-pretty wins if both are set.
func ShapeFromFlags(jsonFlag, jsonPrettyFlag bool) Shape {
	switch {
	case jsonPrettyFlag:
		return JSONPretty
	case jsonFlag:
		return JSONCompact
	default:
		return Pretty
	}
}

// Displayable is implemented by every domain entity view: ToJSON returns a
// value tree, ToPretty returns a one-line human summary.
type Displayable interface {
	ToJSON() any
	ToPretty() string
}

// Adapter wraps Out with the selected Shape and writes one entry per call to
// Print (a single line, except in pretty JSON, which is indented over
// several lines), or, for a JSON array, one document covering all items via
// PrintAll.
type Adapter struct {
	Shape Shape
	Out   io.Writer
}

func NewAdapter(shape Shape, out io.Writer) *Adapter {
	return &Adapter{Shape: shape, Out: out}
}

// Print writes a single Displayable according to the adapter's shape.
func (a *Adapter) Print(item Displayable) error {
	switch a.Shape {
	case JSONCompact:
		return a.printJSON(item.ToJSON(), "")
	case JSONPretty:
		return a.printJSON(item.ToJSON(), "  ")
	default:
		_, err := fmt.Fprintln(a.Out, item.ToPretty())
		return err
	}
}

// PrintAll writes a list of Displayables: one line per item in pretty
// mode, a single JSON array in either JSON mode.
func (a *Adapter) PrintAll(items []Displayable) error {
	if a.Shape == Pretty {
		for _, item := range items {
			if err := a.Print(item); err != nil {
				return err
			}
		}
		return nil
	}

	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, item.ToJSON())
	}
	indent := ""
	if a.Shape == JSONPretty {
		indent = "  "
	}
	return a.printJSON(values, indent)
}

func (a *Adapter) printJSON(value any, indent string) error {
	var data []byte
	var err error
	if indent == "" {
		data, err = json.Marshal(value)
	} else {
		data, err = json.MarshalIndent(value, "", indent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Out, string(data))
	return err
}
