package swaggerkit

import (
	"sort"
	"sync"
)

// SpecMutator lets modules add their paths and schemas to the document
type SpecMutator func(map[string]any)

// Info is the document title block
type Info struct {
	Title   string
	Version string
}

var (
	mu       sync.Mutex
	mutators = map[string]SpecMutator{}
)

// Register stores a named mutator; registering the same name again replaces it
func Register(name string, m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators[name] = m
	mu.Unlock()
}

// Doc builds a fresh OpenAPI 3.0 document from the registered mutators
func Doc(info Info) map[string]any {
	spec := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": info.Title, "version": info.Version},
		"servers": []any{map[string]any{"url": "/"}},
		"paths":   map[string]any{},
	}
	ensureEnvelopeSchemas(spec)

	mu.Lock()
	names := make([]string, 0, len(mutators))
	for n := range mutators {
		names = append(names, n)
	}
	fns := make([]SpecMutator, 0, len(names))
	sort.Strings(names)
	for _, n := range names {
		fns = append(fns, mutators[n])
	}
	mu.Unlock()

	for _, m := range fns {
		m(spec)
	}
	addDefaultError(spec)
	return spec
}

// AddOperation sets one method on a path, creating the path item when needed
func AddOperation(spec map[string]any, path, method string, op map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	if paths == nil {
		paths = map[string]any{}
		spec["paths"] = paths
	}
	item, _ := paths[path].(map[string]any)
	if item == nil {
		item = map[string]any{}
		paths[path] = item
	}
	item[method] = op
}

// AddSchema sets a component schema by name
func AddSchema(spec map[string]any, name string, schema map[string]any) {
	schemas(spec)[name] = schema
}

// Ref is a JSON reference to a component schema
func Ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// JSONBody wraps a schema as an application/json content block
func JSONBody(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func schemas(spec map[string]any) map[string]any {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	out, ok := comps["schemas"].(map[string]any)
	if !ok {
		out = map[string]any{}
		comps["schemas"] = out
	}
	return out
}

// ensureEnvelopeSchemas mirrors the runtime wire in platform/net
func ensureEnvelopeSchemas(spec map[string]any) {
	s := schemas(spec)
	s["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status":     map[string]any{"type": "string", "example": "error"},
			"error":      map[string]any{"type": "string"},
			"field":      map[string]any{"type": "string"},
			"fields":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"code":       map[string]any{"type": "integer", "format": "int32"},
			"request_id": map[string]any{"type": "string"},
			"trace":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"status", "error"},
	}
	s["NotFound"] = map[string]any{
		"type":       "object",
		"properties": map[string]any{"error": map[string]any{"type": "string", "example": "Endpoint not found"}},
	}
}

// addDefaultError injects a 500 response on every operation that lacks one
func addDefaultError(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	errResp := JSONBody("Internal Server Error", Ref("ErrorResponse"))
	for _, p := range paths {
		item, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range item {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses["500"]; !exists {
				responses["500"] = errResp
			}
		}
	}
}
