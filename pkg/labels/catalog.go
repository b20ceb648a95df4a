package labels

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps field names and raw values to display labels.
type Catalog struct {
	Locale         string            `json:"locale,omitempty" yaml:"locale,omitempty"`
	Fields         map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Values         map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
	BooleanKeys    []string          `json:"booleanKeys,omitempty" yaml:"booleanKeys,omitempty"`
	DateLayout     string            `json:"dateLayout,omitempty" yaml:"dateLayout,omitempty"`
	RangeSeparator string            `json:"rangeSeparator,omitempty" yaml:"rangeSeparator,omitempty"`
}

// LabelOf returns the configured label for field, or field itself.
func (c *Catalog) LabelOf(field string) string {
	if c == nil {
		return field
	}
	if label := strings.TrimSpace(c.Fields[field]); label != "" {
		return label
	}
	return field
}

// ValueLabelOf returns the configured label for a raw value, or the raw value.
func (c *Catalog) ValueLabelOf(raw string) string {
	if c == nil {
		return raw
	}
	if label := strings.TrimSpace(c.Values[raw]); label != "" {
		return label
	}
	return raw
}

// MergeFields adds field labels that are not already configured.
func (c *Catalog) MergeFields(fields map[string]string) {
	if c == nil || len(fields) == 0 {
		return
	}
	if c.Fields == nil {
		c.Fields = make(map[string]string, len(fields))
	}
	for name, label := range fields {
		name = strings.TrimSpace(name)
		if name == "" || strings.TrimSpace(label) == "" {
			continue
		}
		if _, exists := c.Fields[name]; exists {
			continue
		}
		c.Fields[name] = label
	}
}

// AddBooleanKeys appends keys not yet declared, keeping the list sorted.
func (c *Catalog) AddBooleanKeys(keys ...string) {
	if c == nil {
		return
	}
	seen := make(map[string]struct{}, len(c.BooleanKeys)+len(keys))
	out := make([]string, 0, len(c.BooleanKeys)+len(keys))
	for _, key := range append(append([]string(nil), c.BooleanKeys...), keys...) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	c.BooleanKeys = out
}

// Parse decodes a catalog from JSON or YAML. source names the payload in
// error messages.
func Parse(data []byte, source string) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("labels: file %s is empty", source)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err == nil {
		return &catalog, nil
	}
	if err := yaml.Unmarshal(data, &catalog); err == nil {
		return &catalog, nil
	}
	return nil, fmt.Errorf("labels: parse %s: invalid JSON or YAML", source)
}

// LoadFile reads a single catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("labels: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and merges every JSON/YAML catalog it finds. A field or
// value labelled differently by two files is an error. An empty or nil fsys
// yields an empty catalog.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	merged := &Catalog{}
	if fsys == nil {
		return merged, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("labels: read %s: %w", path, err)
		}
		catalog, err := Parse(data, path)
		if err != nil {
			return err
		}
		return merge(merged, catalog, path)
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func merge(dst, src *Catalog, source string) error {
	var err error
	if dst.Fields, err = mergeLabels(dst.Fields, src.Fields, "field", source); err != nil {
		return err
	}
	if dst.Values, err = mergeLabels(dst.Values, src.Values, "value", source); err != nil {
		return err
	}
	dst.AddBooleanKeys(src.BooleanKeys...)
	if dst.Locale == "" {
		dst.Locale = src.Locale
	}
	if dst.DateLayout == "" {
		dst.DateLayout = src.DateLayout
	}
	if dst.RangeSeparator == "" {
		dst.RangeSeparator = src.RangeSeparator
	}
	return nil
}

func mergeLabels(dst, src map[string]string, kind, source string) (map[string]string, error) {
	if len(src) == 0 {
		return dst, nil
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, label := range src {
		if existing, ok := dst[key]; ok && existing != label {
			return nil, fmt.Errorf("labels: duplicate %s label %q (file %s)", kind, key, source)
		}
		dst[key] = label
	}
	return dst, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
