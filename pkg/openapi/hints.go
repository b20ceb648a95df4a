package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-filtertags/pkg/formstate"
)

const (
	// ExtensionLabel overrides the display label of a query parameter.
	ExtensionLabel = "x-filter-label"
	// ExtensionBoolean marks a parameter whose "0"/"1" values are booleans.
	ExtensionBoolean = "x-filter-boolean"
)

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Hints describe a filter form as declared by an operation's query
// parameters.
type Hints struct {
	OperationID string            `json:"operationId"`
	Order       []string          `json:"order"`
	Labels      map[string]string `json:"labels,omitempty"`
	BooleanKeys []string          `json:"booleanKeys,omitempty"`
	DateFields  []string          `json:"dateFields,omitempty"`
	ArrayFields []string          `json:"arrayFields,omitempty"`
}

// Schema returns the form schema the hints describe.
func (h Hints) Schema() formstate.Schema {
	return formstate.Schema{
		Fields:      append([]string(nil), h.Order...),
		ArrayFields: append([]string(nil), h.ArrayFields...),
		DateFields:  append([]string(nil), h.DateFields...),
	}
}

// LoadHints parses an OpenAPI 3 document and extracts hints for operationID.
func LoadHints(ctx context.Context, data []byte, operationID string) (Hints, error) {
	if err := ctx.Err(); err != nil {
		return Hints{}, err
	}
	if len(data) == 0 {
		return Hints{}, errors.New("openapi: document payload is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return Hints{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Hints{}, fmt.Errorf("openapi: load document: %w", err)
	}

	item, op := findOperation(doc, operationID)
	if op == nil {
		return Hints{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}

	hints := Hints{OperationID: operationID, Labels: map[string]string{}}
	seen := map[string]int{}
	for _, params := range []openapi3.Parameters{item.Parameters, op.Parameters} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
				continue
			}
			hints.add(ref.Value, seen)
		}
	}
	hints.finish(seen)
	return hints, nil
}

// HintsFromDocument extracts hints from a loaded Document.
func HintsFromDocument(ctx context.Context, doc Document, operationID string) (Hints, error) {
	hints, err := LoadHints(ctx, doc.Raw(), operationID)
	if err != nil {
		return Hints{}, fmt.Errorf("%s: %w", doc.Location(), err)
	}
	return hints, nil
}

// findOperation walks paths in sorted order so duplicate ids resolve
// deterministically.
func findOperation(doc *openapi3.T, operationID string) (*openapi3.PathItem, *openapi3.Operation) {
	if doc.Paths == nil {
		return nil, nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return item, op
			}
		}
	}
	return nil, nil
}

type paramHint struct {
	label   string
	boolean bool
	date    bool
	array   bool
}

// add records param. Operation-level parameters override path-level ones
// with the same name but keep the path-level position.
func (h *Hints) add(param *openapi3.Parameter, seen map[string]int) {
	name := strings.TrimSpace(strings.TrimSuffix(param.Name, "[]"))
	if name == "" {
		return
	}
	if _, ok := seen[name]; !ok {
		seen[name] = len(h.Order)
		h.Order = append(h.Order, name)
	}

	hint := describe(param)
	if hint.label != "" {
		h.Labels[name] = hint.label
	} else {
		delete(h.Labels, name)
	}
	h.BooleanKeys = toggle(h.BooleanKeys, name, hint.boolean)
	h.DateFields = toggle(h.DateFields, name, hint.date)
	h.ArrayFields = toggle(h.ArrayFields, name, hint.array && !hint.date)
}

func (h *Hints) finish(seen map[string]int) {
	byOrder := func(values []string) {
		sort.SliceStable(values, func(i, j int) bool { return seen[values[i]] < seen[values[j]] })
	}
	byOrder(h.BooleanKeys)
	byOrder(h.DateFields)
	byOrder(h.ArrayFields)
	if len(h.Labels) == 0 {
		h.Labels = nil
	}
}

func describe(param *openapi3.Parameter) paramHint {
	var hint paramHint
	var schema *openapi3.Schema
	if param.Schema != nil {
		schema = param.Schema.Value
	}

	hint.label = stringExtension(param.Extensions, ExtensionLabel)
	hint.boolean = boolExtension(param.Extensions, ExtensionBoolean)
	if schema == nil {
		return hint
	}
	if hint.label == "" {
		hint.label = stringExtension(schema.Extensions, ExtensionLabel)
	}
	if hint.label == "" {
		hint.label = strings.TrimSpace(schema.Title)
	}

	element := schema
	if schema.Type != nil && schema.Type.Is(openapi3.TypeArray) {
		hint.array = true
		if schema.Items != nil && schema.Items.Value != nil {
			element = schema.Items.Value
		}
	}

	if !hint.boolean {
		hint.boolean = boolExtension(schema.Extensions, ExtensionBoolean) ||
			(element.Type != nil && element.Type.Is(openapi3.TypeBoolean)) ||
			isBinaryEnum(element.Enum)
	}
	switch element.Format {
	case "date", "date-time":
		hint.date = true
	}
	return hint
}

func isBinaryEnum(values []any) bool {
	if len(values) != 2 {
		return false
	}
	got := map[string]bool{}
	for _, value := range values {
		switch v := value.(type) {
		case string:
			got[v] = true
		case float64:
			got[fmt.Sprint(v)] = true
		default:
			return false
		}
	}
	return got["0"] && got["1"]
}

func stringExtension(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func boolExtension(ext map[string]any, key string) bool {
	switch value := ext[key].(type) {
	case bool:
		return value
	case string:
		return strings.EqualFold(strings.TrimSpace(value), "true")
	default:
		return false
	}
}

func toggle(values []string, name string, on bool) []string {
	for i, value := range values {
		if value == name {
			if on {
				return values
			}
			return append(values[:i], values[i+1:]...)
		}
	}
	if on {
		return append(values, name)
	}
	return values
}
