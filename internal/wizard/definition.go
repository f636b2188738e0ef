// internal/wizard/definition.go
//
// Wizard step definitions: YAML loader and registry.
//
// Context
//   Each multi-step form is declared in a YAML file under
//   “components/<comp>/forms/”.  The file defines the wizard's identifier,
//   its fixed ordered steps, and each step's fields with presence rules.
//   At boot we parse every such file and store the resulting WizardDef in
//   an in-memory registry.  The state machine, renderer, and handlers all
//   fetch definitions from this registry by ID, guaranteeing a single
//   source of truth for step structure.
//
// Workflow
//   •  Structs mirror the YAML schema: WizardDef → StepDef → FieldDef.
//   •  LoadWizardDef parses a single YAML file and validates structural
//      rules.
//   •  RegisterWizards walks a base directory, discovers YAMLs, loads them
//      via LoadWizardDef, and adds them to the registry.
//   •  GetWizardDef offers safe, read-only access to a parsed wizard by ID.
//
//------------------------------------------------------------------------------

package wizard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// WizardDef represents one wizard definition loaded from YAML.
//
// The wizard is uniquely identified by ID which should be namespaced by
// component, e.g. “apply/application”.  Steps are fixed and ordered; the
// state machine advances through them by index.
type WizardDef struct {
	ID    string    `yaml:"id"`    // Component-scoped identifier.
	Title string    `yaml:"title"` // Display title, optional.
	Steps []StepDef `yaml:"steps"` // Ordered step list.  Required.
}

// StepDef groups fields into one wizard step.  At runtime only one step is
// rendered at a time.
type StepDef struct {
	ID          string     `yaml:"id"`          // Unique per wizard.  If blank, we derive one.
	Title       string     `yaml:"title"`       // Display heading.
	Description string     `yaml:"description"` // Subheading, optional.
	ErrorMsg    string     `yaml:"error"`       // Message when a required field is missing.
	Fields      []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control.  Presence metadata lives
// inline so the state machine can gate step advancement.
type FieldDef struct {
	Name        string   `yaml:"name"`        // Submission key.  Required.
	Label       string   `yaml:"label"`       // Human-readable label.  Required.
	Type        string   `yaml:"type"`        // text, email, number, textarea, select, radio, checkbox.
	Placeholder string   `yaml:"placeholder"` // Optional placeholder text.
	Required    bool     `yaml:"required"`    // True if the step cannot advance without it.
	MaxLength   int      `yaml:"maxlength"`   // ≥ 0, 0 means unset.
	Options     []string `yaml:"options"`     // For select/radio.  Optional.
	ErrorMsg    string   `yaml:"error"`       // Field-specific message, optional.
}

// fieldTypes lists the input types the renderer knows how to emit.
var fieldTypes = map[string]bool{
	"text": true, "email": true, "number": true, "textarea": true,
	"select": true, "radio": true, "checkbox": true,
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// registry maps compositeID (“comp/wizard”) → *WizardDef.  Guarded by mutex.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*WizardDef)
)

// GetWizardDef returns a parsed WizardDef by composite ID
// (“component/wizard”).  The boolean is false when the ID is unknown.
func GetWizardDef(id string) (*WizardDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	wd, ok := registry[id]
	return wd, ok
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadWizardDef parses one YAML file, validates its structure, and returns
// a populated WizardDef.  It NEVER mutates the global registry.
func LoadWizardDef(path string) (*WizardDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wizard file %s: %w", path, err)
	}

	var wd WizardDef
	if err := yaml.Unmarshal(raw, &wd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}

	if err := validateWizardDef(&wd, path); err != nil {
		return nil, err
	}

	return &wd, nil
}

// RegisterWizards walks baseDir and loads every “*.yaml” under
// “components/*/forms/”.
func RegisterWizards(baseDir string) error {
	if baseDir == "" {
		return errors.New("RegisterWizards: no base directory provided")
	}

	formsRoot := filepath.Join(baseDir, "components")
	err := filepath.WalkDir(formsRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil // skip non-YAML
		}
		if filepath.Base(filepath.Dir(path)) != "forms" {
			return nil
		}

		wd, err := LoadWizardDef(path)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		register(wd)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err // propagate IO or parse errors.
	}
	return nil
}

// register inserts or overrides the wizard in the global registry.  Caller
// must ensure the WizardDef passed validation.
func register(wd *WizardDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[wd.ID] = wd
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateWizardDef enforces structural rules that cannot be expressed via
// YAML tags alone.  It returns a descriptive error referencing the
// offending file.
func validateWizardDef(wd *WizardDef, path string) error {
	if wd.ID == "" {
		return fmt.Errorf("wizard definition %s: missing required 'id'", path)
	}
	if len(wd.Steps) == 0 {
		return fmt.Errorf("wizard definition %s: must have 'steps'", path)
	}

	fieldNames := make(map[string]struct{})
	for si := range wd.Steps {
		s := &wd.Steps[si]
		if s.ID == "" {
			s.ID = fmt.Sprintf("step%d", si+1)
		}
		for fi := range s.Fields {
			if err := validateField(&s.Fields[fi], path); err != nil {
				return err
			}
			if _, dup := fieldNames[s.Fields[fi].Name]; dup {
				return fmt.Errorf("wizard %s: duplicate field name '%s' across steps", path, s.Fields[fi].Name)
			}
			fieldNames[s.Fields[fi].Name] = struct{}{}
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, path string) error {
	if f.Name == "" {
		return fmt.Errorf("wizard %s: field missing 'name'", path)
	}
	if f.Label == "" {
		return fmt.Errorf("wizard %s: field '%s' missing 'label'", path, f.Name)
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("wizard %s: field '%s' has unsupported type %q", path, f.Name, f.Type)
	}
	if f.MaxLength < 0 {
		return fmt.Errorf("wizard %s: field '%s' maxlength cannot be negative", path, f.Name)
	}
	if (f.Type == "select" || f.Type == "radio") && len(f.Options) == 0 {
		return fmt.Errorf("wizard %s: field '%s' needs 'options'", path, f.Name)
	}
	return nil
}
