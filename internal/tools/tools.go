package tools

import "github.com/shale-build/shale/internal/build"

// Returns the reference collaborator set.
func Default() build.Tools {
	return build.Tools{
		Resolver:  TrivialResolver{},
		Installer: TrivialInstaller{},
		Packager:  TarPackager{},
		Indexer:   JSONIndexer{},
		Tests:     ScriptTestRunner{},
		EnvWriter: EnvWriter{},
	}
}
