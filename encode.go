package jsondelta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON writes the node as compact JSON, keeping mapping keys in
// insertion order. Scalar encoding is delegated to encoding/json; container
// syntax is assembled by hand because marshalling through a Go map would
// re-sort the keys.
func (n *Node) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := n.encodeJSON(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encodeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		if n.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberType:
		if n.Raw == "" {
			return fmt.Errorf("number node without literal")
		}
		buf.WriteString(n.Raw)
	case StringType:
		d, err := json.Marshal(n.Str)
		if err != nil {
			return err
		}
		buf.Write(d)
	case SequenceType:
		buf.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := v.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case MappingType:
		buf.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := n.Values[i].encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown node type %d", n.Type)
	}
	return nil
}

// UnmarshalJSON decodes a JSON fragment into the receiver
func (n *Node) UnmarshalJSON(data []byte) error {
	dec, err := FromJSON(data)
	if err != nil {
		return err
	}
	*n = *dec
	return nil
}

// ToJSON encodes the node as indented JSON, four spaces per level
func ToJSON(n *Node) ([]byte, error) {
	compact, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, compact, "", "    "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ToYAML encodes the node as YAML, mapping keys in insertion order
func ToYAML(n *Node) ([]byte, error) {
	v, err := toGoValue(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

func toGoValue(n *Node) (interface{}, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return n.Bool, nil
	case NumberType:
		return n.Num, nil
	case StringType:
		return n.Str, nil
	case SequenceType:
		items := make([]interface{}, len(n.Values))
		for i, v := range n.Values {
			gv, err := toGoValue(v)
			if err != nil {
				return nil, err
			}
			items[i] = gv
		}
		return items, nil
	case MappingType:
		ms := make(yaml.MapSlice, len(n.Keys))
		for i, k := range n.Keys {
			gv, err := toGoValue(n.Values[i])
			if err != nil {
				return nil, err
			}
			ms[i] = yaml.MapItem{Key: k, Value: gv}
		}
		return ms, nil
	}
	return nil, fmt.Errorf("unknown node type %d", n.Type)
}

// Save writes a document file, choosing the format by extension the same
// way Load does
func Save(path string, n *Node) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = ToYAML(n)
	default:
		data, err = ToJSON(n)
	}
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return nil
}
