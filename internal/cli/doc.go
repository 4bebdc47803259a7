// Implements the command-line interface for the build tool.
//
// The root command holds global logging flags and an optional builder
// config file; subcommands are thin wrappers that assemble a build unit
// and hand it to the build package.
package cli
