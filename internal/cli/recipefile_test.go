package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/shale-build/shale/internal/recipe"
)

func writeRecipeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recipe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing recipe: %v", err)
	}
	return path
}

func TestLoadRecipe(t *testing.T) {
	path := writeRecipeFile(t, `
name: zlib
version: 1.3.1
sources:
  - url: https://example.com/zlib-1.3.1.tar.gz
    sha256: 9a93b2b7dfdac77ceba5a558a580e74667dd6fede4585b91eefb60f03b72df23
    folder: zlib
    patches:
      - fix-configure.patch
  - git: https://example.com/extras.git
    rev: v2.0
  - path: ./vendored
    use_gitignore: true
script:
  content: |
    ./configure --prefix=$PREFIX
    make install
requirements:
  build:
    - make
  host:
    - libfoo >=2
test:
  package_contents:
    - lib/libz.*
  commands:
    - test -f lib/libz.a
`)

	rec, err := loadRecipe(path)
	if err != nil {
		t.Fatalf("loadRecipe: %v", err)
	}

	if rec.Name != "zlib" || rec.Version != "1.3.1" {
		t.Errorf("identity = %s %s", rec.Name, rec.Version)
	}

	if len(rec.Sources) != 3 {
		t.Fatalf("sources = %d, want 3", len(rec.Sources))
	}

	urlSrc, ok := rec.Sources[0].(recipe.URLSource)
	if !ok {
		t.Fatalf("source 1 is %T, want URLSource", rec.Sources[0])
	}
	if !reflect.DeepEqual(urlSrc.URLs, []string{"https://example.com/zlib-1.3.1.tar.gz"}) {
		t.Errorf("urls = %v", urlSrc.URLs)
	}
	wantChecksum := digest.NewDigestFromEncoded(digest.SHA256,
		"9a93b2b7dfdac77ceba5a558a580e74667dd6fede4585b91eefb60f03b72df23")
	if urlSrc.Checksum != wantChecksum {
		t.Errorf("checksum = %s", urlSrc.Checksum)
	}
	if urlSrc.Folder != "zlib" || !reflect.DeepEqual(urlSrc.Patches, []string{"fix-configure.patch"}) {
		t.Errorf("folder/patches = %q %v", urlSrc.Folder, urlSrc.Patches)
	}

	gitSrc, ok := rec.Sources[1].(recipe.GitSource)
	if !ok {
		t.Fatalf("source 2 is %T, want GitSource", rec.Sources[1])
	}
	if gitSrc.URL != "https://example.com/extras.git" || gitSrc.Rev != "v2.0" {
		t.Errorf("git source = %+v", gitSrc)
	}

	pathSrc, ok := rec.Sources[2].(recipe.PathSource)
	if !ok {
		t.Fatalf("source 3 is %T, want PathSource", rec.Sources[2])
	}
	if pathSrc.Path != "./vendored" || !pathSrc.UseGitignore {
		t.Errorf("path source = %+v", pathSrc)
	}

	content, ok := rec.Script.Contents().(recipe.CommandOrPath)
	if !ok {
		t.Fatalf("script content is %T, want CommandOrPath", rec.Script.Contents())
	}
	if content.Value != "./configure --prefix=$PREFIX\nmake install\n" {
		t.Errorf("script = %q", content.Value)
	}

	if !reflect.DeepEqual(rec.Requirements.Build, []string{"make"}) ||
		!reflect.DeepEqual(rec.Requirements.Host, []string{"libfoo >=2"}) {
		t.Errorf("requirements = %+v", rec.Requirements)
	}

	if rec.Test == nil || !rec.Test.HasPackageContents() {
		t.Fatalf("test spec = %+v", rec.Test)
	}
	if !reflect.DeepEqual(rec.Test.Commands, []string{"test -f lib/libz.a"}) {
		t.Errorf("test commands = %v", rec.Test.Commands)
	}
}

func TestLoadRecipeScriptForms(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   recipe.ScriptContent
	}{
		{
			name:   "file maps to an explicit path",
			script: "script:\n  file: steps.sh\n",
			want:   recipe.ScriptPath{Path: "steps.sh"},
		},
		{
			name:   "command maps to a verbatim command",
			script: "script:\n  command: make install\n",
			want:   recipe.Command{Command: "make install"},
		},
		{
			name:   "commands map to a command list",
			script: "script:\n  commands:\n    - ./configure\n    - make\n",
			want:   recipe.Commands{Commands: []string{"./configure", "make"}},
		},
		{
			name:   "absent script falls back to the default",
			script: "",
			want:   recipe.DefaultScript{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRecipeFile(t, "name: demo\nversion: 1.0.0\n"+tc.script)

			rec, err := loadRecipe(path)
			if err != nil {
				t.Fatalf("loadRecipe: %v", err)
			}
			if got := rec.Script.Contents(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("script content = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestLoadRecipeRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing name",
			content: "version: 1.0.0\n",
		},
		{
			name:    "missing version",
			content: "name: demo\n",
		},
		{
			name:    "source with no origin",
			content: "name: demo\nversion: 1.0.0\nsources:\n  - folder: sub\n",
		},
		{
			name:    "source with two origins",
			content: "name: demo\nversion: 1.0.0\nsources:\n  - git: https://x.git\n    path: ./here\n",
		},
		{
			name:    "script with two forms",
			content: "name: demo\nversion: 1.0.0\nscript:\n  file: a.sh\n  command: make\n",
		},
		{
			name:    "malformed yaml",
			content: "name: [unclosed\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRecipeFile(t, tc.content)
			if _, err := loadRecipe(path); err == nil {
				t.Fatal("loadRecipe succeeded, want an error")
			}
		})
	}
}

func TestLoadRecipeURLCandidateOrder(t *testing.T) {
	path := writeRecipeFile(t, `
name: demo
version: 1.0.0
sources:
  - url: https://primary.example.com/a.tar.gz
    urls:
      - https://mirror.example.com/a.tar.gz
    sha256: 9a93b2b7dfdac77ceba5a558a580e74667dd6fede4585b91eefb60f03b72df23
`)

	rec, err := loadRecipe(path)
	if err != nil {
		t.Fatalf("loadRecipe: %v", err)
	}

	src := rec.Sources[0].(recipe.URLSource)
	want := []string{
		"https://primary.example.com/a.tar.gz",
		"https://mirror.example.com/a.tar.gz",
	}
	if !reflect.DeepEqual(src.URLs, want) {
		t.Errorf("urls = %v, want primary first", src.URLs)
	}
}
