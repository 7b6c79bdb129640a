// Package loader provides ready-made implementations of
// jsonschema.Loader for hosts that don't want to write their own:
// FileLoader reads schema documents off disk (sniffing YAML), and
// HTTPLoader fetches them over HTTP.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileLoader resolves an external schema location to a file under
// Root and reads it. A location ending in ".yaml" or ".yml" is
// decoded as YAML and re-marshaled to JSON before being handed back —
// every other extension is assumed to already be JSON.
type FileLoader struct {
	Root string
}

// Load implements the jsonschema.Loader signature.
func (l FileLoader) Load(location string) (json.RawMessage, error) {
	path := location
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if l.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Root, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml %q: %w", path, err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("re-marshal yaml %q as json: %w", path, err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// HTTPLoader fetches an external schema location over HTTP(S) using
// Client, or http.DefaultClient if Client is nil.
type HTTPLoader struct {
	Client *http.Client
}

// Load implements the jsonschema.Loader signature.
func (l HTTPLoader) Load(location string) (json.RawMessage, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(location)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %s", location, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", location, err)
	}
	return data, nil
}
