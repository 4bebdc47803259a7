package recipe

// Describes how a build script is authored in a recipe.
//
// ScriptContent is a closed union: the only implementations are
// [DefaultScript], [ScriptPath], [CommandOrPath], [Commands], and
// [Command]. The build script resolver dispatches with a type switch and
// must handle all five forms.
type ScriptContent interface {
	isScriptContent()
}

// No script was specified. The conventionally named script file is read
// from the recipe directory; an absent file yields an empty script.
type DefaultScript struct{}

// An explicitly specified script file path, relative to the recipe
// directory. A missing file is a hard error.
type ScriptPath struct {
	Path string
}

// A string that is either a script path or literal script text.
//
// A single-line value ending in a known script extension is treated as a
// path first, falling back to literal text if the file does not exist.
type CommandOrPath struct {
	Value string
}

// A sequence of shell commands, joined with newlines.
type Commands struct {
	Commands []string
}

// A single literal command string.
type Command struct {
	Command string
}

func (DefaultScript) isScriptContent() {}
func (ScriptPath) isScriptContent()    {}
func (CommandOrPath) isScriptContent() {}
func (Commands) isScriptContent()      {}
func (Command) isScriptContent()       {}

// The build script section of a recipe.
type Script struct {
	Content     ScriptContent // How the script body is authored. Nil means [DefaultScript].
	Interpreter string        // Declared interpreter override. Recognized but unsupported.
}

// Returns the script content, substituting [DefaultScript] when none was
// specified.
func (s Script) Contents() ScriptContent {
	if s.Content == nil {
		return DefaultScript{}
	}
	return s.Content
}
