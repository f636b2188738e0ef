// internal/wizard/definition_test.go

package wizard

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
id: apply/application
title: Membership Application
steps:
  - id: personal
    title: Personal Details
    error: Please fill in all required fields.
    fields:
      - name: fullName
        label: Full Name
        type: text
        required: true
        maxlength: 100
      - name: yearsInBusiness
        label: Years in Business
        type: number
        required: true
  - id: membership
    title: Membership
    error: Please select a membership type.
    fields:
      - name: membershipType
        label: Membership Type
        type: radio
        required: true
        options: [founding, annual]
`

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wizard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadWizardDef(t *testing.T) {
	wd, err := LoadWizardDef(writeYAML(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadWizardDef: %v", err)
	}
	if wd.ID != "apply/application" || len(wd.Steps) != 2 {
		t.Fatalf("unexpected def: %+v", wd)
	}
	if wd.Steps[0].Fields[0].MaxLength != 100 {
		t.Fatalf("maxlength not parsed: %+v", wd.Steps[0].Fields[0])
	}
	if got := wd.Steps[1].ErrorMsg; got != "Please select a membership type." {
		t.Fatalf("step error message: %q", got)
	}
}

func TestLoadWizardDefRejectsBadStructure(t *testing.T) {
	cases := map[string]string{
		"missing id": `
steps:
  - title: One
    fields:
      - {name: a, label: A, type: text}
`,
		"no steps": `
id: x/y
`,
		"field without label": `
id: x/y
steps:
  - title: One
    fields:
      - {name: a, type: text}
`,
		"unsupported type": `
id: x/y
steps:
  - title: One
    fields:
      - {name: a, label: A, type: file}
`,
		"select without options": `
id: x/y
steps:
  - title: One
    fields:
      - {name: a, label: A, type: select}
`,
		"duplicate field across steps": `
id: x/y
steps:
  - title: One
    fields:
      - {name: a, label: A, type: text}
  - title: Two
    fields:
      - {name: a, label: A again, type: text}
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWizardDef(writeYAML(t, content)); err == nil {
				t.Fatal("expected a structural error")
			}
		})
	}
}

func TestRegisterWizards(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "components", "apply", "forms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "application.yaml"), []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := RegisterWizards(base); err != nil {
		t.Fatalf("RegisterWizards: %v", err)
	}
	if _, ok := GetWizardDef("apply/application"); !ok {
		t.Fatal("registered wizard not found in registry")
	}
}
