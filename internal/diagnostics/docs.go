package diagnostics

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DocEntry is one documented diagnostic code, loaded from docs/diagnostics.yaml.
type DocEntry struct {
	Code    string `yaml:"code"`
	Domain  string `yaml:"domain"`
	Summary string `yaml:"summary"`
}

// DocSet is the full docs/diagnostics.yaml sidecar.
type DocSet struct {
	Codes []DocEntry `yaml:"codes"`
}

// LoadDocSet reads the YAML sidecar describing every registered code in
// prose, used to keep generated documentation honest.
func LoadDocSet(path string) (*DocSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds DocSet
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("diagnostics: parsing %s: %w", path, err)
	}
	return &ds, nil
}

// CrossCheck verifies that docs and the compiled-in registry describe
// exactly the same set of codes, each under the domain the registry
// actually assigns it. Run by the test suite so the two never drift.
func (ds *DocSet) CrossCheck() []string {
	var problems []string

	documented := make(map[string]DocEntry, len(ds.Codes))
	for _, e := range ds.Codes {
		documented[e.Code] = e
	}

	registered := Codes()
	sort.Strings(registered)

	for _, code := range registered {
		entry, ok := documented[code]
		if !ok {
			problems = append(problems, fmt.Sprintf("code %s is registered but undocumented", code))
			continue
		}
		domain, _ := DomainOf(code)
		if entry.Domain != string(domain) {
			problems = append(problems, fmt.Sprintf(
				"code %s documented under domain %q, registry says %q", code, entry.Domain, domain))
		}
	}

	registeredSet := make(map[string]bool, len(registered))
	for _, c := range registered {
		registeredSet[c] = true
	}
	for _, e := range ds.Codes {
		if !registeredSet[e.Code] {
			problems = append(problems, fmt.Sprintf("docs describe %s, which is not registered", e.Code))
		}
	}

	return problems
}
