package proxy

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resource is one named pass-through route.
type Resource struct {
	Name         string   `yaml:"name"`
	UpstreamPath string   `yaml:"upstream_path"`
	Methods      []string `yaml:"methods"`
	Permission   string   `yaml:"permission"`
}

func (r Resource) Allows(method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

type Table struct {
	byName map[string]Resource
	order  []string
}

type tableFile struct {
	Resources []Resource `yaml:"resources"`
}

var knownMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proxy table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable validates the YAML table. Methods default to GET and permission to the name.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse proxy table: %w", err)
	}

	t := &Table{byName: make(map[string]Resource, len(f.Resources))}
	for i, r := range f.Resources {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" || strings.Contains(r.Name, "/") {
			return nil, fmt.Errorf("proxy resource #%d: invalid name %q", i+1, r.Name)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("proxy resource %q defined twice", r.Name)
		}
		if !strings.HasPrefix(r.UpstreamPath, "/") {
			return nil, fmt.Errorf("proxy resource %q: upstream_path must start with /", r.Name)
		}
		r.UpstreamPath = strings.TrimRight(r.UpstreamPath, "/")

		if len(r.Methods) == 0 {
			r.Methods = []string{http.MethodGet}
		}
		for j, m := range r.Methods {
			m = strings.ToUpper(strings.TrimSpace(m))
			if !knownMethods[m] {
				return nil, fmt.Errorf("proxy resource %q: unsupported method %q", r.Name, m)
			}
			r.Methods[j] = m
		}
		if r.Permission == "" {
			r.Permission = r.Name
		}

		t.byName[r.Name] = r
		t.order = append(t.order, r.Name)
	}
	return t, nil
}

func (t *Table) Lookup(name string) (Resource, bool) {
	r, ok := t.byName[name]
	return r, ok
}

func (t *Table) Resources() []Resource {
	out := make([]Resource, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, t.byName[n])
	}
	return out
}
