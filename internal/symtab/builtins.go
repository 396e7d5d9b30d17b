package symtab

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed builtins.yaml
var builtinsYAML []byte

type builtinFile struct {
	BaseMethods         []string `yaml:"base_methods"`
	SingletonExclusions []string `yaml:"singleton_exclusions"`
	Classes             []Class  `yaml:"classes"`
}

// NewWithBuiltins returns a table pre-populated with the core Ruby
// classes and the universal base-method filter.
func NewWithBuiltins() (*Table, error) {
	var bf builtinFile
	if err := yaml.Unmarshal(builtinsYAML, &bf); err != nil {
		return nil, fmt.Errorf("parsing embedded builtins: %w", err)
	}

	t := New()
	for _, m := range bf.BaseMethods {
		t.base[m] = true
	}
	for _, m := range bf.SingletonExclusions {
		t.singletonExclusions[m] = true
	}
	for _, c := range bf.Classes {
		c.builtin = true
		t.Add(c)
	}
	// Object answers every base method; FULL mode sees them through
	// the superclass chain.
	if obj, ok := t.classes[rootClass]; ok {
		obj.Methods = dedupe(append(obj.Methods, bf.BaseMethods...))
	}
	return t, nil
}

// BaseMethods returns the universal base-method names, sorted.
func (t *Table) BaseMethods() []string {
	out := make([]string, 0, len(t.base))
	for m := range t.base {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
