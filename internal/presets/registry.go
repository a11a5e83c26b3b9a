package presets

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// LanguagePattern matches the language codes scripts accept ("en", "pt-BR")
var LanguagePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

const paramPlaceholder = "{{param}}"

// Registry holds the transform presets loaded from the embedded YAML
type Registry struct {
	presets map[string]*Preset
	order   []string
	mu      sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded presets
func NewRegistry() (*Registry, error) {
	r := &Registry{
		presets: make(map[string]*Preset),
	}

	data, err := configFiles.ReadFile("config/presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	if err := r.Load(data); err != nil {
		return nil, err
	}

	return r, nil
}

// Load parses a presets YAML document and adds its presets, replacing any
// preset with the same name.
func (r *Registry) Load(data []byte) error {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal presets: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range file.Presets {
		p := file.Presets[i]
		if p.Name == "" || strings.Contains(p.Name, ":") {
			return fmt.Errorf("invalid preset name %q", p.Name)
		}
		if strings.TrimSpace(p.Instruction) == "" {
			return fmt.Errorf("preset %q has no instruction", p.Name)
		}
		if _, exists := r.presets[p.Name]; !exists {
			r.order = append(r.order, p.Name)
		}
		r.presets[p.Name] = &p
	}

	return nil
}

// List returns all presets in definition order
func (r *Registry) List() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Preset, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.presets[name])
	}
	return out
}

// Resolve expands an instruction that names a preset. Anything else is
// returned unchanged as a free-text instruction. A preset that needs a
// parameter but lacks a valid one is an error.
func (r *Registry) Resolve(instruction string) (*Resolved, error) {
	trimmed := strings.TrimSpace(instruction)
	name, param, hasParam := strings.Cut(trimmed, ":")
	name = strings.ToLower(name)

	r.mu.RLock()
	preset, ok := r.presets[name]
	r.mu.RUnlock()

	if !ok || strings.ContainsAny(trimmed, " \n\t") {
		return &Resolved{Instruction: instruction}, nil
	}

	if preset.Parameter == "" {
		if hasParam {
			return nil, fmt.Errorf("preset %q takes no parameter", name)
		}
		return &Resolved{Preset: name, Instruction: preset.Instruction}, nil
	}

	if !hasParam || param == "" {
		return nil, fmt.Errorf("preset %q requires a %s, e.g. %s:es", name, preset.Parameter, name)
	}

	resolved := &Resolved{
		Preset:      name + ":" + param,
		Instruction: strings.ReplaceAll(preset.Instruction, paramPlaceholder, param),
	}

	if preset.Parameter == ParameterLanguage {
		if !LanguagePattern.MatchString(param) {
			return nil, fmt.Errorf("invalid language code %q", param)
		}
		lang := param
		resolved.Language = &lang
	}

	return resolved, nil
}
