// Package tools provides reference implementations of the build
// collaborator contracts.
//
// The build pipeline only knows the interfaces in the build package; these
// implementations make the CLI usable end-to-end for dependency-free
// recipes: a resolver/installer pair that handles the empty requirement
// set, a tar.gz packager, a JSON channel indexer, an env-script writer,
// and a script-based test runner. Deployments with a real package manager
// substitute their own collaborators.
package tools
