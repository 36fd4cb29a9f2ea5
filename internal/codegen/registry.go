package codegen

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"game-data-hub/internal/utils"
)

// FormatInfo describes a registered generator
type FormatInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
}

// Registry maps format names to generators, case-insensitively
type Registry struct {
	generators map[string]Generator
	mutex      sync.RWMutex
}

// NewRegistry creates a registry holding gens
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{generators: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		r.Register(g)
	}
	return r
}

// DefaultRegistry registers every built-in generator
func DefaultRegistry() *Registry {
	return NewRegistry(
		UnityGenerator{},
		UnrealGenerator{},
		JSONGenerator{},
		AvroGenerator{},
		YAMLGenerator{},
	)
}

// Register adds or replaces the generator for g.Name()
func (r *Registry) Register(g Generator) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.generators[strings.ToLower(g.Name())] = g
}

// Get resolves a generator by name
func (r *Registry) Get(format string) (Generator, error) {
	r.mutex.RLock()
	g, exists := r.generators[strings.ToLower(strings.TrimSpace(format))]
	r.mutex.RUnlock()

	if !exists {
		return nil, utils.NewValidationError(fmt.Sprintf("Unknown generator type: %s", format), "")
	}
	return g, nil
}

// Generate renders data and schema in the named format
func (r *Registry) Generate(format string, data TableData, schema Schema) (string, error) {
	g, err := r.Get(format)
	if err != nil {
		return "", err
	}

	out, err := g.Generate(data, schema)
	if err != nil {
		if _, ok := utils.AsAppError(err); ok {
			return "", err
		}
		return "", utils.NewGenerationError(err, g.Name())
	}
	return out, nil
}

// FileExtension returns the extension, dot included, of the named format
func (r *Registry) FileExtension(format string) (string, error) {
	g, err := r.Get(format)
	if err != nil {
		return "", err
	}
	return g.FileExtension(), nil
}

// MimeType returns the MIME type of the named format
func (r *Registry) MimeType(format string) (string, error) {
	g, err := r.Get(format)
	if err != nil {
		return "", err
	}
	return g.MimeType(), nil
}

// Formats lists registered generators sorted by name
func (r *Registry) Formats() []FormatInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	formats := make([]FormatInfo, 0, len(r.generators))
	for _, g := range r.generators {
		formats = append(formats, FormatInfo{
			Name:      g.Name(),
			Extension: g.FileExtension(),
			MimeType:  g.MimeType(),
		})
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Name < formats[j].Name })
	return formats
}
