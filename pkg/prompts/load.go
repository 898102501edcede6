package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// templateExts are the file extensions LoadDir picks up.
var templateExts = map[string]struct{}{
	".tmpl": {},
	".txt":  {},
	".md":   {},
}

// Load reads a single template file. The template name is derived from the
// filename with the extension stripped.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Template{}, fmt.Errorf("prompts: load %q: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return Parse(name, strings.TrimRight(string(data), "\n"))
}

// LoadDir reads all template files from dir (non-recursive) and returns
// them sorted by name.
func LoadDir(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("prompts: load dir %q: %w", dir, err)
	}

	var templates []Template

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := templateExts[filepath.Ext(e.Name())]; !ok {
			continue
		}

		t, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })

	return templates, nil
}

type yamlFile struct {
	Templates []struct {
		Name string `yaml:"name"`
		Body string `yaml:"body"`
	} `yaml:"templates"`
}

// LoadYAML reads templates from a YAML file of the form
//
//	templates:
//	  - name: greeting
//	    body: "Hello {name}"
//
// Names must be unique within the file.
func LoadYAML(path string) ([]Template, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return nil, fmt.Errorf("prompts: load %q: %w", path, err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("prompts: parse %q: %w", path, err)
	}

	seen := make(map[string]struct{}, len(f.Templates))
	templates := make([]Template, 0, len(f.Templates))

	for _, entry := range f.Templates {
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("prompts: %q: duplicate template name %q", path, entry.Name)
		}
		seen[entry.Name] = struct{}{}

		t, err := Parse(entry.Name, strings.TrimRight(entry.Body, "\n"))
		if err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	return templates, nil
}
