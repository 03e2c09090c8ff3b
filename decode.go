package jsondelta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// FromJSON decodes a JSON document into a Node tree, preserving mapping key
// order. Invalid input is re-scanned with encoding/json so the error carries
// the byte offset of the problem.
func FromJSON(data []byte) (*Node, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if !gjson.ValidBytes(data) {
		var v interface{}
		err := json.Unmarshal(data, &v)
		if syn, ok := err.(*json.SyntaxError); ok {
			return nil, fmt.Errorf("invalid JSON at byte offset %d: %w", syn.Offset, syn)
		}
		if err == nil {
			err = fmt.Errorf("malformed document")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// fromResult converts a parsed gjson value. ForEach visits object members
// in document order, which is what keeps mappings ordered.
func fromResult(r gjson.Result) *Node {
	switch {
	case r.IsObject():
		n := Mapping()
		r.ForEach(func(k, v gjson.Result) bool {
			n.Keys = append(n.Keys, k.Str)
			n.Values = append(n.Values, fromResult(v))
			return true
		})
		return n
	case r.IsArray():
		n := Sequence()
		r.ForEach(func(_, v gjson.Result) bool {
			n.Values = append(n.Values, fromResult(v))
			return true
		})
		return n
	}
	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return &Node{Type: NumberType, Raw: r.Raw, Num: r.Num}
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	}
	return Null()
}

// FromYAML decodes a YAML document into a Node tree. Mappings decode as
// ordered map slices so key order survives.
func FromYAML(data []byte) (*Node, error) {
	var v interface{}
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return fromGoValue(v)
}

func fromGoValue(v interface{}) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return &Node{Type: NumberType, Raw: strconv.Itoa(x), Num: float64(x)}, nil
	case int64:
		return &Node{Type: NumberType, Raw: strconv.FormatInt(x, 10), Num: float64(x)}, nil
	case uint64:
		return &Node{Type: NumberType, Raw: strconv.FormatUint(x, 10), Num: float64(x)}, nil
	case float64:
		return NumberFromFloat(x), nil
	case []interface{}:
		n := Sequence()
		for _, item := range x {
			ch, err := fromGoValue(item)
			if err != nil {
				return nil, err
			}
			n.Values = append(n.Values, ch)
		}
		return n, nil
	case yaml.MapSlice:
		n := Mapping()
		for _, item := range x {
			ch, err := fromGoValue(item.Value)
			if err != nil {
				return nil, err
			}
			n.Keys = append(n.Keys, fmt.Sprint(item.Key))
			n.Values = append(n.Values, ch)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}

// Load reads and decodes a document file. The format is chosen by
// extension: .yaml/.yml decode as YAML, everything else as JSON.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	var n *Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		n, err = FromYAML(data)
	default:
		n, err = FromJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
