package cli

import (
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"

	"github.com/shale-build/shale/internal/recipe"
)

// On-disk recipe document.
//
// This is a 1:1 decoding surface for the recipe data model: there is no
// recipe language here, no selectors and no templating. Each source entry
// carries exactly one of the git/url/path keys.
type recipeDoc struct {
	Name         string          `yaml:"name"`
	Version      string          `yaml:"version"`
	Sources      []sourceDoc     `yaml:"sources"`
	Script       *scriptDoc      `yaml:"script"`
	Requirements requirementsDoc `yaml:"requirements"`
	Test         *testDoc        `yaml:"test"`
}

type sourceDoc struct {
	Git          string   `yaml:"git"`
	Rev          string   `yaml:"rev"`
	URL          string   `yaml:"url"`
	URLs         []string `yaml:"urls"`
	SHA256       string   `yaml:"sha256"`
	Path         string   `yaml:"path"`
	UseGitignore bool     `yaml:"use_gitignore"`
	FileName     string   `yaml:"file_name"`
	Folder       string   `yaml:"folder"`
	Patches      []string `yaml:"patches"`
}

type scriptDoc struct {
	File        string   `yaml:"file"`
	Content     string   `yaml:"content"`
	Command     string   `yaml:"command"`
	Commands    []string `yaml:"commands"`
	Interpreter string   `yaml:"interpreter"`
}

type requirementsDoc struct {
	Build []string `yaml:"build"`
	Host  []string `yaml:"host"`
}

type testDoc struct {
	PackageContents []string `yaml:"package_contents"`
	Commands        []string `yaml:"commands"`
}

// Loads and decodes a recipe file into the data model.
func loadRecipe(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	var doc recipeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode recipe %s: %w", path, err)
	}

	return doc.toRecipe()
}

// Maps the document onto the recipe data model.
func (doc *recipeDoc) toRecipe() (*recipe.Recipe, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("recipe has no name")
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("recipe %q has no version", doc.Name)
	}

	rec := &recipe.Recipe{
		Name:    doc.Name,
		Version: doc.Version,
		Requirements: recipe.Requirements{
			Build: doc.Requirements.Build,
			Host:  doc.Requirements.Host,
		},
	}

	for i, src := range doc.Sources {
		mapped, err := src.toSource()
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
		rec.Sources = append(rec.Sources, mapped)
	}

	if doc.Script != nil {
		script, err := doc.Script.toScript()
		if err != nil {
			return nil, err
		}
		rec.Script = script
	}

	if doc.Test != nil {
		rec.Test = &recipe.TestSpec{
			PackageContents: doc.Test.PackageContents,
			Commands:        doc.Test.Commands,
		}
	}

	return rec, nil
}

// Maps one source entry onto its Source variant.
func (doc *sourceDoc) toSource() (recipe.Source, error) {
	urls := doc.URLs
	if doc.URL != "" {
		urls = append([]string{doc.URL}, urls...)
	}

	declared := 0
	for _, set := range []bool{doc.Git != "", len(urls) > 0, doc.Path != ""} {
		if set {
			declared++
		}
	}
	if declared != 1 {
		return nil, fmt.Errorf("expected exactly one of git, url, or path")
	}

	switch {
	case doc.Git != "":
		return recipe.GitSource{
			URL:     doc.Git,
			Rev:     doc.Rev,
			Folder:  doc.Folder,
			Patches: doc.Patches,
		}, nil

	case len(urls) > 0:
		var checksum digest.Digest
		if doc.SHA256 != "" {
			checksum = digest.NewDigestFromEncoded(digest.SHA256, doc.SHA256)
		}
		return recipe.URLSource{
			URLs:     urls,
			Checksum: checksum,
			FileName: doc.FileName,
			Folder:   doc.Folder,
			Patches:  doc.Patches,
		}, nil

	default:
		return recipe.PathSource{
			Path:         doc.Path,
			UseGitignore: doc.UseGitignore,
			FileName:     doc.FileName,
			Folder:       doc.Folder,
			Patches:      doc.Patches,
		}, nil
	}
}

// Maps the script section onto its ScriptContent form.
func (doc *scriptDoc) toScript() (recipe.Script, error) {
	declared := 0
	for _, set := range []bool{doc.File != "", doc.Content != "", doc.Command != "", len(doc.Commands) > 0} {
		if set {
			declared++
		}
	}
	if declared > 1 {
		return recipe.Script{}, fmt.Errorf("script declares more than one of file, content, command, commands")
	}

	script := recipe.Script{Interpreter: doc.Interpreter}

	switch {
	case doc.File != "":
		script.Content = recipe.ScriptPath{Path: doc.File}
	case doc.Content != "":
		script.Content = recipe.CommandOrPath{Value: doc.Content}
	case doc.Command != "":
		script.Content = recipe.Command{Command: doc.Command}
	case len(doc.Commands) > 0:
		script.Content = recipe.Commands{Commands: doc.Commands}
	}

	return script, nil
}
