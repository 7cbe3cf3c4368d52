package query

import (
	"fmt"

	"github.com/pevans/jobwizard/prefs"
)

// Category is a source's native category label for a sphere. A zero
// Category (Native false) means the source has no category for the sphere
// and the constraint is expressed as search terms or dropped.
type Category struct {
	Label  string
	Native bool
}

// NoCategory marks a sphere without a native category.
var NoCategory = Category{}

func native(label string) Category {
	return Category{Label: label, Native: true}
}

// CategoryMap is an immutable lookup from sphere to a source's category.
type CategoryMap struct {
	name    string
	entries map[prefs.Sphere]Category
}

func newCategoryMap(name string, entries map[prefs.Sphere]Category) CategoryMap {
	copied := make(map[prefs.Sphere]Category, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return CategoryMap{name: name, entries: copied}
}

// PrimaryCategories maps spheres to the feed source's categories.
var PrimaryCategories = newCategoryMap("primary", map[prefs.Sphere]Category{
	prefs.SphereQA:       native("QA"),
	prefs.SphereFrontend: native("Front End"),
	prefs.SphereDevOps:   native("DevOps"),
	prefs.SphereDesign:   native("Design"),
	prefs.SphereData:     native("Data Science"),
	prefs.SpherePMBA:     native("Project Manager"),
	prefs.SphereBackend:  NoCategory,
	prefs.SphereAny:      NoCategory,
})

// SecondaryCategories maps spheres to the listings page's categories.
var SecondaryCategories = newCategoryMap("secondary", map[prefs.Sphere]Category{
	prefs.SphereQA:       native("QA"),
	prefs.SphereFrontend: native("Front-end"),
	prefs.SphereDevOps:   native("DevOps"),
	prefs.SphereDesign:   native("Design"),
	prefs.SphereData:     native("Data Science"),
	prefs.SpherePMBA:     native("Project Manager"),
	prefs.SphereBackend:  NoCategory,
	prefs.SphereAny:      NoCategory,
})

// Lookup returns the category for sphere. An unset sphere is looked up as
// Any; a sphere missing from the table is an error.
func (m CategoryMap) Lookup(sphere prefs.Sphere) (Category, error) {
	if sphere == "" {
		sphere = prefs.SphereAny
	}
	cat, ok := m.entries[sphere]
	if !ok {
		return NoCategory, fmt.Errorf("%s categories: %w: %q", m.name, prefs.ErrUnknownSphere, sphere)
	}
	return cat, nil
}
