package recipe

// Declared dependencies of a recipe, as unresolved match specs.
type Requirements struct {
	Build []string // Tools available only at build time, installed into the build prefix.
	Host  []string // Dependencies of the shipped package, installed into the host prefix.
}

// Tests declared by a recipe.
type TestSpec struct {
	PackageContents []string // Glob patterns that must match at least one packaged path each.
	Commands        []string // Commands run against the installed package.
}

// Returns true if any package-content assertions are declared.
func (t *TestSpec) HasPackageContents() bool {
	return t != nil && len(t.PackageContents) > 0
}

// A declarative description of a package build: where the source material
// comes from, how the build script is authored, what the package depends
// on, and how the result is tested.
type Recipe struct {
	Name         string
	Version      string
	Sources      []Source
	Script       Script
	Requirements Requirements
	Test         *TestSpec
}
