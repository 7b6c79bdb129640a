package schema

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/arborvalid/jsonschema/pkg/jsonuri"
)

// extendURIs augments every URI in uris by appending each token of
// keyPath, in order, per spec §4.1's opening sentence. A fresh slice
// is returned — callers must never mutate a uris slice a sibling
// compile call is still holding, since jsonuri.URI.Append itself
// returns a new value but the enclosing slice is still shared memory.
func extendURIs(uris []jsonuri.URI, keyPath []string) []jsonuri.URI {
	out := make([]jsonuri.URI, len(uris))
	for i, u := range uris {
		for _, tok := range keyPath {
			u = u.Append(tok)
		}
		out[i] = u
	}
	return out
}

// compile is the schema factory: given an arbitrary decoded JSON
// value, the key path it was reached by from its nearest already-URI'd
// ancestor, and the URIs that ancestor is reachable under, it decides
// which node variant to build and registers it with root.
//
// A nil, nil return means sub_json was not a schema shape at all (not
// an object, not a boolean) — callers treat this as absent.
func compile(root *RootSchema, subJSON any, keyPath []string, uris []jsonuri.URI) (Node, error) {
	uris = extendURIs(uris, keyPath)

	switch v := subJSON.(type) {
	case bool:
		node := BooleanSchemaNode{Allow: v}
		for _, u := range uris {
			if err := root.insert(u, node); err != nil {
				return nil, err
			}
		}
		return node, nil
	case map[string]any:
		return compileSchemaObject(root, v, uris)
	default:
		return nil, nil
	}
}

// compileSchemaObject implements spec §4.1's "Object schema" branch:
// $id, then definitions, then $ref, then (if no $ref) a TypeSchema,
// then annotation erasure, then registration and unknown-keyword
// stashing.
func compileSchemaObject(root *RootSchema, obj map[string]any, uris []jsonuri.URI) (Node, error) {
	work := make(map[string]any, len(obj))
	for k, v := range obj {
		work[k] = v
	}
	consume := func(key string) { delete(work, key) }

	if idVal, ok := work["$id"]; ok {
		if idStr, ok := idVal.(string); ok {
			top := uris[len(uris)-1]
			newURI := top.Derive(idStr)
			already := false
			for _, u := range uris {
				if u.Equal(newURI) {
					already = true
					break
				}
			}
			if !already {
				uris = append(uris, newURI)
			}
		}
		consume("$id")
	}

	if defsVal, ok := work["definitions"]; ok {
		if defs, ok := defsVal.(map[string]any); ok {
			for name, sub := range defs {
				if _, err := compile(root, sub, []string{"definitions", name}, uris); err != nil {
					return nil, err
				}
			}
		}
		consume("definitions")
	}

	if refVal, ok := work["$ref"]; ok {
		consume("$ref")
		if refStr, ok := refVal.(string); ok {
			top := uris[len(uris)-1]
			target := top.Derive(refStr)
			node, err := root.getOrCreateRef(target)
			if err != nil {
				return nil, err
			}
			eraseAnnotations(work)
			if err := registerAndStash(root, node, uris, work); err != nil {
				return nil, err
			}
			return node, nil
		}
	}

	node, err := compileTypeSchema(root, work, uris)
	if err != nil {
		return nil, err
	}

	eraseAnnotations(work)
	if err := registerAndStash(root, node, uris, work); err != nil {
		return nil, err
	}

	return node, nil
}

// eraseAnnotations drops the annotation-only keywords spec §4.1 step 5
// names. These are recognized-and-discarded, not "unknown" — per
// SUPPLEMENTED FEATURES #3, they must never be stashed as a
// promotable schema.
func eraseAnnotations(work map[string]any) {
	delete(work, "$schema")
	delete(work, "default")
	delete(work, "title")
	delete(work, "description")
}

// registerAndStash implements spec §4.1 step 6: register node under
// every URI the enclosing object is reachable under, then stash
// whatever keys remain in work (i.e. everything compileTypeSchema
// didn't recognize) as unknown keywords under each of those URIs too,
// per SUPPLEMENTED FEATURES #1 (URI-list growth means a node — and its
// leftover unknown keywords — is reachable from every ancestor base).
func registerAndStash(root *RootSchema, node Node, uris []jsonuri.URI, work map[string]any) error {
	for _, u := range uris {
		if err := root.insert(u, node); err != nil {
			return err
		}
	}
	for _, u := range uris {
		for key, sub := range work {
			if err := root.insertUnknownKeyword(u, key, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileTypeSchema implements spec §4.2. It builds a per-type node —
// numeric/string/object/array — only for the type slots "type"
// actually requests, then assigns each into ByType, aliasing the
// numeric node into the integer/unsigned slots whenever "number" was
// requested and those slots weren't already filled by an explicit
// "integer" request — a literal integer-valued JSON number must still
// satisfy a {"type":"number"} schema. A type that wasn't requested
// never has its keywords touched at all: they're left in work for
// registerAndStash to file as unknown keywords, exactly as the
// original leaves e.g. "properties" alone on a {"type":"integer"}
// schema rather than compiling it into a live ObjectNode nothing will
// ever dispatch to.
func compileTypeSchema(root *RootSchema, work map[string]any, uris []jsonuri.URI) (*TypeSchema, error) {
	consume := func(key string) { delete(work, key) }

	t := &TypeSchema{}

	var requested [numTypes]bool
	if typeVal, ok := work["type"]; ok {
		switch tv := typeVal.(type) {
		case string:
			for _, typ := range schemaTypeNames[tv] {
				requested[typ] = true
			}
		case []any:
			for _, item := range tv {
				if s, ok := item.(string); ok {
					for _, typ := range schemaTypeNames[s] {
						requested[typ] = true
					}
				}
			}
		}
		consume("type")
	} else {
		for i := range requested {
			requested[i] = true
		}
	}

	if requested[TypeInteger] || requested[TypeUnsigned] || requested[TypeFloat] {
		numericNode := compileNumeric(work, consume)
		if requested[TypeInteger] {
			t.ByType[TypeInteger] = numericNode
		}
		if requested[TypeUnsigned] {
			t.ByType[TypeUnsigned] = numericNode
		}
		if requested[TypeFloat] {
			t.ByType[TypeFloat] = numericNode
			if t.ByType[TypeInteger] == nil {
				t.ByType[TypeInteger] = numericNode
			}
			if t.ByType[TypeUnsigned] == nil {
				t.ByType[TypeUnsigned] = numericNode
			}
		}
	}

	if requested[TypeString] {
		stringNode, err := compileString(work, consume, root.Format)
		if err != nil {
			return nil, err
		}
		t.ByType[TypeString] = stringNode
	}

	if requested[TypeObject] {
		objectNode, err := compileObjectType(root, work, uris, consume)
		if err != nil {
			return nil, err
		}
		t.ByType[TypeObject] = objectNode
	}

	if requested[TypeArray] {
		arrayNode, err := compileArrayType(root, work, uris, consume)
		if err != nil {
			return nil, err
		}
		t.ByType[TypeArray] = arrayNode
	}

	if requested[TypeNull] {
		t.ByType[TypeNull] = NullNode{}
	}
	if requested[TypeBoolean] {
		t.ByType[TypeBoolean] = BooleanTypeNode{}
	}

	if v, ok := work["enum"]; ok {
		if arr, ok := v.([]any); ok {
			t.HasEnum, t.Enum = true, arr
		}
		consume("enum")
	}
	if v, ok := work["const"]; ok {
		t.HasConst, t.Const = true, v
		consume("const")
	}

	if v, ok := work["not"]; ok {
		sub, err := compile(root, v, []string{"not"}, uris)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			t.Logic = append(t.Logic, &LogicalNotNode{Sub: sub})
		}
		consume("not")
	}
	for _, kind := range []CombinatorKind{AllOf, AnyOf, OneOf} {
		kw := kind.keyword()
		if v, ok := work[kw]; ok {
			if arr, ok := v.([]any); ok {
				subs := make([]Node, 0, len(arr))
				for i, item := range arr {
					sub, err := compile(root, item, []string{kw, strconv.Itoa(i)}, uris)
					if err != nil {
						return nil, err
					}
					if sub != nil {
						subs = append(subs, sub)
					}
				}
				t.Logic = append(t.Logic, &LogicalCombinationNode{Kind: kind, Subs: subs})
			}
			consume(kw)
		}
	}

	// Per SUPPLEMENTED FEATURES #4: "if" only compiles — and is only
	// erased from work — when a "then" or "else" accompanies it. A
	// bare dangling "if" with neither branch falls through untouched
	// and is later stashed as an unknown keyword, promotable by a
	// future $ref the same way any other unrecognized sub-object is.
	_, hasThen := work["then"]
	_, hasElse := work["else"]
	if ifVal, ok := work["if"]; ok && (hasThen || hasElse) {
		ifNode, err := compile(root, ifVal, []string{"if"}, uris)
		if err != nil {
			return nil, err
		}
		t.If = ifNode
		consume("if")
	}
	if hasThen {
		thenNode, err := compile(root, work["then"], []string{"then"}, uris)
		if err != nil {
			return nil, err
		}
		t.Then = thenNode
		consume("then")
	}
	if hasElse {
		elseNode, err := compile(root, work["else"], []string{"else"}, uris)
		if err != nil {
			return nil, err
		}
		t.Else = elseNode
		consume("else")
	}

	return t, nil
}

// compileObjectType builds the "object" dispatch slot's ObjectNode
// from the "maxProperties"/"minProperties"/"required"/"properties"/
// "patternProperties"/"additionalProperties"/"dependencies"/
// "propertyNames" keywords, per spec §4.5.
func compileObjectType(root *RootSchema, work map[string]any, uris []jsonuri.URI, consume func(string)) (*ObjectNode, error) {
	o := &ObjectNode{}

	if v, ok := work["maxProperties"]; ok {
		if f, ok := NumberValue(v); ok {
			o.HasMaxProperties, o.MaxProperties = true, int(f)
		}
		consume("maxProperties")
	}
	if v, ok := work["minProperties"]; ok {
		if f, ok := NumberValue(v); ok {
			o.HasMinProperties, o.MinProperties = true, int(f)
		}
		consume("minProperties")
	}
	if v, ok := work["required"]; ok {
		if arr, ok := v.([]any); ok {
			for _, item := range arr {
				if s, ok := item.(string); ok {
					o.Required = append(o.Required, s)
				}
			}
		}
		consume("required")
	}
	if v, ok := work["properties"]; ok {
		if props, ok := v.(map[string]any); ok {
			o.Properties = make(map[string]Node, len(props))
			for name, sub := range props {
				node, err := compile(root, sub, []string{"properties", name}, uris)
				if err != nil {
					return nil, err
				}
				if node != nil {
					o.Properties[name] = node
				}
			}
		}
		consume("properties")
	}
	if v, ok := work["patternProperties"]; ok {
		if props, ok := v.(map[string]any); ok {
			for pattern, sub := range props {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("patternProperties %q: %w", pattern, err)
				}
				node, err := compile(root, sub, []string{"patternProperties", pattern}, uris)
				if err != nil {
					return nil, err
				}
				o.PatternProperties = append(o.PatternProperties, patternProperty{re: re, src: pattern, sub: node})
			}
		}
		consume("patternProperties")
	}
	if v, ok := work["additionalProperties"]; ok {
		node, err := compile(root, v, []string{"additionalProperties"}, uris)
		if err != nil {
			return nil, err
		}
		o.AdditionalProperties = node
		consume("additionalProperties")
	}
	if v, ok := work["dependencies"]; ok {
		if deps, ok := v.(map[string]any); ok {
			o.Dependencies = make(map[string]Node, len(deps))
			for name, dv := range deps {
				switch dvv := dv.(type) {
				case []any:
					var req []string
					for _, item := range dvv {
						if s, ok := item.(string); ok {
							req = append(req, s)
						}
					}
					o.Dependencies[name] = &RequiredNode{Required: req}
				default:
					node, err := compile(root, dv, []string{"dependencies", name}, uris)
					if err != nil {
						return nil, err
					}
					if node != nil {
						o.Dependencies[name] = node
					}
				}
			}
		}
		consume("dependencies")
	}
	if v, ok := work["propertyNames"]; ok {
		node, err := compile(root, v, []string{"propertyNames"}, uris)
		if err != nil {
			return nil, err
		}
		o.PropertyNames = node
		consume("propertyNames")
	}

	return o, nil
}

// compileArrayType builds the "array" dispatch slot's ArrayNode from
// the "maxItems"/"minItems"/"uniqueItems"/"items"/"additionalItems"/
// "contains" keywords, per spec §4.6.
func compileArrayType(root *RootSchema, work map[string]any, uris []jsonuri.URI, consume func(string)) (*ArrayNode, error) {
	a := &ArrayNode{}

	if v, ok := work["maxItems"]; ok {
		if f, ok := NumberValue(v); ok {
			a.HasMaxItems, a.MaxItems = true, int(f)
		}
		consume("maxItems")
	}
	if v, ok := work["minItems"]; ok {
		if f, ok := NumberValue(v); ok {
			a.HasMinItems, a.MinItems = true, int(f)
		}
		consume("minItems")
	}
	if v, ok := work["uniqueItems"]; ok {
		if b, ok := v.(bool); ok {
			a.UniqueItems = b
		}
		consume("uniqueItems")
	}
	if v, ok := work["items"]; ok {
		switch iv := v.(type) {
		case []any:
			for i, sub := range iv {
				node, err := compile(root, sub, []string{"items", strconv.Itoa(i)}, uris)
				if err != nil {
					return nil, err
				}
				a.Items = append(a.Items, node)
			}
		default:
			node, err := compile(root, iv, []string{"items"}, uris)
			if err != nil {
				return nil, err
			}
			a.ItemsSchema = node
		}
		consume("items")
	}
	if v, ok := work["additionalItems"]; ok {
		node, err := compile(root, v, []string{"additionalItems"}, uris)
		if err != nil {
			return nil, err
		}
		a.AdditionalItems = node
		consume("additionalItems")
	}
	if v, ok := work["contains"]; ok {
		node, err := compile(root, v, []string{"contains"}, uris)
		if err != nil {
			return nil, err
		}
		a.Contains = node
		consume("contains")
	}

	return a, nil
}
