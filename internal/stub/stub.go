// Package stub turns the missing-method registry into stub
// specifications, one per class that needs placeholder methods.
package stub

import (
	"fmt"

	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

// Generate returns one StubSpec per class in missing, sorted by class
// name. Class-level methods ("self.x" or "test_class_x") are split from
// instance methods; each group is sorted.
func Generate(missing *registry.Missing, conv naming.Convention) []taxonomy.StubSpec {
	var specs []taxonomy.StubSpec
	for _, class := range missing.Classes() {
		var classMethods, instanceMethods []string
		for _, m := range missing.Methods(class) {
			if naming.IsClassLevel(m) {
				classMethods = append(classMethods, m)
			} else {
				instanceMethods = append(instanceMethods, m)
			}
		}
		if len(classMethods) == 0 && len(instanceMethods) == 0 {
			continue
		}

		modules, leaf := naming.SplitPath(class)
		specs = append(specs, taxonomy.StubSpec{
			FullName:        class,
			ModulePath:      modules,
			ClassName:       leaf,
			IsTestClass:     conv.IsTestClass(class),
			ClassMethods:    orEmpty(classMethods),
			InstanceMethods: orEmpty(instanceMethods),
		})
	}
	return specs
}

// Summary is the closing line of a report.
func Summary(errors int) string {
	return fmt.Sprintf("Number of errors detected: %d", errors)
}

// Discovered lists the production and test classes found in reg.
func Discovered(reg *registry.Registry) (classes, testClasses []string) {
	return reg.ClassNames(), reg.TestClassNames()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
