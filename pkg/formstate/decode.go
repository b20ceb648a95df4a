package formstate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON object into a snapshot, keeping the key order of
// the document. Nested objects decode to map[string]any, numbers to float64.
func ParseJSON(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return Snapshot{}, fmt.Errorf("formstate: read json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Snapshot{}, errors.New("formstate: json snapshot must be an object")
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Snapshot{}, fmt.Errorf("formstate: read json key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Snapshot{}, fmt.Errorf("formstate: unexpected json key %v", keyTok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return Snapshot{}, fmt.Errorf("formstate: read json field %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("formstate: close json object: %w", err)
	}
	return NewSnapshot(fields...), nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '[':
		list := make([]any, 0)
		for dec.More() {
			item, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		obj := make(map[string]any)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			item, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj[key] = item
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// ParseYAML decodes a YAML mapping into a snapshot, keeping document order.
// Implicit timestamps (2024-01-31) decode to time.Time so date ranges can be
// written naturally in fixtures and config files.
func ParseYAML(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("formstate: parse yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Snapshot{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return Snapshot{}, errors.New("formstate: yaml snapshot must be a mapping")
	}

	fields := make([]Field, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value, err := decodeYAMLNode(root.Content[i+1])
		if err != nil {
			return Snapshot{}, fmt.Errorf("formstate: read yaml field %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	return NewSnapshot(fields...), nil
}

func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := decodeYAMLNode(child)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case yaml.ScalarNode:
		if node.ShortTag() == "!!timestamp" {
			var ts time.Time
			if err := node.Decode(&ts); err == nil {
				return ts, nil
			}
		}
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// FromStruct snapshots the exported fields of a struct in declaration order.
// Names come from the `form` tag, then the `json` tag, then the Go field name;
// a tag of "-" skips the field. Nil pointers become nil values.
func FromStruct(v any) (Snapshot, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Snapshot{}, errors.New("formstate: struct pointer is nil")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Snapshot{}, fmt.Errorf("formstate: expected struct, got %s", rv.Kind())
	}

	rt := rv.Type()
	fields := make([]Field, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := structFieldName(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)
		var value any
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			value = nil
		} else {
			value = fv.Interface()
		}
		fields = append(fields, Field{Name: name, Value: value})
	}
	return NewSnapshot(fields...), nil
}

func structFieldName(sf reflect.StructField) (string, bool) {
	for _, key := range []string{"form", "json"} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, false
		}
	}
	return sf.Name, false
}
