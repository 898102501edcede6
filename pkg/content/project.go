package content

import (
	"context"
	"crypto/md5" //nolint:gosec // short non-cryptographic identifier
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Project source errors.
var (
	// ErrProjectUnavailable signals that project data exists but cannot be used
	// yet, e.g. research is still pending. Generators answer with a
	// not-implemented result instead of failing.
	ErrProjectUnavailable = errors.New("project data unavailable")
	// ErrNotImplemented is returned by sources that have no backing store.
	// It is treated like ErrProjectUnavailable.
	ErrNotImplemented = errors.New("not implemented")
	// ErrProjectNotFound is returned for unknown project IDs.
	ErrProjectNotFound = errors.New("project not found")
)

// Research states of a project.
const (
	ResearchPending    = "pending"
	ResearchProcessing = "processing"
	ResearchCompleted  = "completed"
	ResearchFailed     = "failed"
)

// Project is the public information about a crypto project that content is
// generated from.
type Project struct {
	ID              string         `yaml:"id" json:"id"`
	Name            string         `yaml:"name" json:"name"`
	URL             string         `yaml:"url,omitempty" json:"url,omitempty"`
	ContractAddress string         `yaml:"contract_address,omitempty" json:"contract_address,omitempty"`
	Description     string         `yaml:"description,omitempty" json:"description,omitempty"`
	Features        []string       `yaml:"features,omitempty" json:"features,omitempty"`
	ResearchStatus  string         `yaml:"research_status,omitempty" json:"research_status,omitempty"`
	ResearchData    map[string]any `yaml:"research_data,omitempty" json:"research_data,omitempty"`
}

// Ready reports whether the project's research is usable. An empty status
// counts as completed.
func (p Project) Ready() bool {
	return p.ResearchStatus == "" || p.ResearchStatus == ResearchCompleted
}

// Summary renders the project as a plain-text block for prompt variables.
// Research data is appended as YAML with sorted keys so the output is stable.
func (p Project) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name: %s\n", p.Name)
	if p.URL != "" {
		fmt.Fprintf(&sb, "Website: %s\n", p.URL)
	}
	if p.ContractAddress != "" {
		fmt.Fprintf(&sb, "Contract: %s\n", p.ContractAddress)
	}
	if p.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", p.Description)
	}
	if len(p.Features) > 0 {
		sb.WriteString("Features:\n")
		for _, f := range p.Features {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	if len(p.ResearchData) > 0 {
		data, err := yaml.Marshal(p.ResearchData)
		if err == nil {
			sb.WriteString("Research:\n")
			sb.Write(data)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ProjectID derives a stable 12 character identifier from a project URL.
func ProjectID(url string) string {
	sum := md5.Sum([]byte(url)) //nolint:gosec // identifier, not a security boundary
	return hex.EncodeToString(sum[:])[:12]
}

// ProjectSource looks up projects by ID.
type ProjectSource interface {
	Project(ctx context.Context, id string) (Project, error)
}

// StaticSource is an in-memory ProjectSource. It is safe for concurrent use.
type StaticSource struct {
	mu       sync.RWMutex
	projects map[string]Project
}

// NewStaticSource creates a source holding projects. Later entries replace
// earlier ones with the same ID.
func NewStaticSource(projects ...Project) *StaticSource {
	s := &StaticSource{projects: make(map[string]Project, len(projects))}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

// Put stores or replaces a project.
func (s *StaticSource) Put(p Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[p.ID] = p
}

// IDs returns the stored project IDs sorted.
func (s *StaticSource) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Project returns the project with the given ID. Projects whose research is
// not completed yield an error wrapping ErrProjectUnavailable.
func (s *StaticSource) Project(_ context.Context, id string) (Project, error) {
	s.mu.RLock()
	p, ok := s.projects[id]
	s.mu.RUnlock()

	if !ok {
		return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, id)
	}
	if !p.Ready() {
		return Project{}, fmt.Errorf("%w: project %q research is %s", ErrProjectUnavailable, id, p.ResearchStatus)
	}

	return p, nil
}

type projectsFile struct {
	Projects []Project `yaml:"projects"`
}

// LoadProjects reads a YAML file of the form
//
//	projects:
//	  - id: nova
//	    name: Nova
//	    url: https://nova.example
//
// Projects without an ID get one derived from their URL.
func LoadProjects(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return nil, fmt.Errorf("content: load projects: %w", err)
	}

	var f projectsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("content: parse projects %q: %w", path, err)
	}

	src := NewStaticSource()
	seen := make(map[string]struct{}, len(f.Projects))

	for i, p := range f.Projects {
		if p.ID == "" {
			if p.URL == "" {
				return nil, fmt.Errorf("content: projects %q: entry %d needs an id or url", path, i)
			}
			p.ID = ProjectID(p.URL)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("content: projects %q: project %q has no name", path, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("content: projects %q: duplicate project id %q", path, p.ID)
		}
		seen[p.ID] = struct{}{}

		src.Put(p)
	}

	return src, nil
}
