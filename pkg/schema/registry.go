package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arborvalid/jsonschema/pkg/jsonuri"
)

// Loader fetches the raw JSON document for an external schema
// location — the absolute document identifier half of a jsonuri.URI.
// It is invoked synchronously (from the caller's perspective; see
// SetRootSchema's concurrent fetch pass) and must not retain the
// returned bytes' backing array beyond the call.
type Loader func(location string) (json.RawMessage, error)

// schemaFile is the per-document compilation state spec §3 calls
// SchemaFile: compiled schemas, placeholder refs awaiting a target,
// and unrecognized sub-JSON that might later be promoted to a schema
// by a $ref discovered after the fact.
type schemaFile struct {
	schemas         map[string]Node
	unresolved      map[string]*SchemaRef
	unknownKeywords map[string]any
}

func newSchemaFile() *schemaFile {
	return &schemaFile{
		schemas:         make(map[string]Node),
		unresolved:      make(map[string]*SchemaRef),
		unknownKeywords: make(map[string]any),
	}
}

// RootSchema is the root registry (spec §4.11): it owns every
// compiled SchemaFile, keyed by document location, and the two
// callbacks a caller supplies at construction.
type RootSchema struct {
	mu    sync.Mutex
	files map[string]*schemaFile

	Loader Loader
	Format FormatChecker
}

// NewRootSchema returns an empty registry ready to take a
// SetRootSchema call. Either callback may be nil; a nil Loader causes
// SetRootSchema to fail the moment an external reference is found, a
// nil Format causes any "format" keyword to report a
// missing-format-checker error at validation time (spec §4.4).
func NewRootSchema(loader Loader, formatChecker FormatChecker) *RootSchema {
	return &RootSchema{
		files:  make(map[string]*schemaFile),
		Loader: loader,
		Format: formatChecker,
	}
}

// fileFor returns the schemaFile for location, creating it if this is
// the first time it's been mentioned. Callers must hold r.mu.
func (r *RootSchema) fileFor(location string) *schemaFile {
	f, ok := r.files[location]
	if !ok {
		f = newSchemaFile()
		r.files[location] = f
	}
	return f
}

// insert implements spec §4.11's insert(uri, node): register node at
// uri, failing if something is already registered there, then resolve
// any placeholder ref that was waiting on this exact pointer.
func (r *RootSchema) insert(uri jsonuri.URI, node Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.fileFor(uri.Location)
	if _, exists := f.schemas[uri.Pointer]; exists {
		return fmt.Errorf("schema already inserted at %s", uri.String())
	}
	f.schemas[uri.Pointer] = node

	if ref, ok := f.unresolved[uri.Pointer]; ok {
		ref.SetTarget(node)
		delete(f.unresolved, uri.Pointer)
	}
	return nil
}

// insertUnknownKeyword implements spec §4.11's
// insert_unknown_keyword(uri, key, sub_json): if a ref is already
// waiting at uri.append(key), compile sub in place to satisfy it
// (promoting the unknown keyword to a real schema); otherwise stash
// it for a future $ref to find.
//
// The pending check and the stash happen under one hold of r.mu, so
// a getOrCreateRef racing in from SetRootSchema's concurrent fetch
// pass either sees the stash or has already left a ref for this
// branch to find. compile must never run with r.mu held (it recurses
// back into insert/insertUnknownKeyword/getOrCreateRef), so the
// promotion branch compiles only after the lock is released.
func (r *RootSchema) insertUnknownKeyword(uri jsonuri.URI, key string, sub any) error {
	newURI := uri.Append(key)

	r.mu.Lock()
	f := r.fileFor(newURI.Location)
	_, pending := f.unresolved[newURI.Pointer]
	if !pending {
		f.unknownKeywords[newURI.Pointer] = sub
	}
	r.mu.Unlock()

	if !pending {
		return nil
	}

	_, err := compile(r, sub, nil, []jsonuri.URI{newURI})
	return err
}

// getOrCreateRef implements spec §4.11's get_or_create_ref(uri): reuse
// an already-compiled schema at uri, promote a stashed unknown
// keyword to one, or hand back (creating if necessary) the
// placeholder SchemaRef other callers are also waiting on.
func (r *RootSchema) getOrCreateRef(uri jsonuri.URI) (Node, error) {
	r.mu.Lock()
	f := r.fileFor(uri.Location)

	if node, ok := f.schemas[uri.Pointer]; ok {
		r.mu.Unlock()
		return node, nil
	}

	if sub, ok := f.unknownKeywords[uri.Pointer]; ok {
		delete(f.unknownKeywords, uri.Pointer)
		r.mu.Unlock()
		return compile(r, sub, nil, []jsonuri.URI{uri})
	}

	if ref, ok := f.unresolved[uri.Pointer]; ok {
		r.mu.Unlock()
		return ref, nil
	}

	ref := &SchemaRef{ID: uri.String()}
	f.unresolved[uri.Pointer] = ref
	r.mu.Unlock()
	return ref, nil
}

// pendingLocations returns, in a deterministic order, every location
// this registry knows about (because something referenced it) that
// hasn't been fetched yet and has no schemas registered under it —
// spec §4.11's "location whose schemas map is empty".
func (r *RootSchema) pendingLocations(fetched map[string]bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for loc, f := range r.files {
		if fetched[loc] {
			continue
		}
		if len(f.schemas) == 0 {
			out = append(out, loc)
		}
	}
	sort.Strings(out)
	return out
}

// unresolvedRefs lists every still-unresolved placeholder's URI
// string, across every document, for the fixed-point failure message.
func (r *RootSchema) unresolvedRefs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for loc, f := range r.files {
		for ptr := range f.unresolved {
			out = append(out, (jsonuri.URI{Location: loc, Pointer: ptr}).String())
		}
	}
	sort.Strings(out)
	return out
}

// RootNode returns the compiled node for the document root ("#"'s
// empty pointer), failing if no root node has been registered yet. A
// SetRootSchema call that failed after the root itself was compiled
// (for example on an unresolvable reference) leaves that root node in
// place, and RootNode then returns it.
func (r *RootSchema) RootNode() (Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[jsonuri.RootLocation]
	if !ok {
		return nil, errors.New("no root schema has been set")
	}
	node, ok := f.schemas[""]
	if !ok {
		return nil, errors.New("no root schema has been set")
	}
	return node, nil
}

// SetRootSchema implements spec §4.11's set_root_schema(json): compile
// data once under the root URI, then repeatedly fetch and compile
// whatever external locations the compile pass left referenced but
// empty, until a pass adds nothing new. Independent locations
// discovered in the same pass are fetched concurrently — see
// SPEC_FULL.md §5 — but the registry's own mutations stay behind r.mu
// regardless of which goroutine a Loader call lands on.
func (r *RootSchema) SetRootSchema(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("unmarshal root schema: %w", err))
	}

	rootURI := jsonuri.URI{Location: jsonuri.RootLocation}
	if _, err := compile(r, raw, nil, []jsonuri.URI{rootURI}); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("compile root schema: %w", err))
	}

	fetched := map[string]bool{jsonuri.RootLocation: true}
	for {
		pending := r.pendingLocations(fetched)
		if len(pending) == 0 {
			break
		}
		if r.Loader == nil {
			return motmedelErrors.NewWithTrace(
				fmt.Errorf("external schema location %q is referenced but no loader is configured", pending[0]),
			)
		}

		group, _ := errgroup.WithContext(context.Background())
		for _, loc := range pending {
			loc := loc
			fetched[loc] = true
			group.Go(func() error {
				raw, err := r.Loader(loc)
				if err != nil {
					return fmt.Errorf("load %q: %w", loc, err)
				}
				var sub any
				if err := json.Unmarshal(raw, &sub); err != nil {
					return fmt.Errorf("unmarshal %q: %w", loc, err)
				}
				if _, err := compile(r, sub, nil, []jsonuri.URI{{Location: loc}}); err != nil {
					return fmt.Errorf("compile %q: %w", loc, err)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return motmedelErrors.NewWithTrace(err)
		}
	}

	if leftover := r.unresolvedRefs(); len(leftover) > 0 {
		return motmedelErrors.NewWithTrace(
			fmt.Errorf("unresolvable schema reference(s): %s", strings.Join(leftover, ", ")),
		)
	}
	return nil
}
