// Package build drives a single package build from source fetch to tested
// archive.
//
// [Run] composes the source acquisition subsystem with the external
// collaborators (resolver, environment installer, packager, indexer, env
// script writer, and test runner) into one strictly sequential pipeline.
// The package's own responsibilities are the three hard parts in between:
// resolving the ambiguous script authoring surface into an executable
// script file, running it as a subprocess with prefix-rewriting log
// output, and determining which files it produced by diffing host-prefix
// snapshots taken before and after.
//
// There is no retry anywhere: every failure propagates to the caller with
// its original kind intact, and the cleanup of the build directory is
// controlled solely by the no-clean option, never by which error path was
// taken.
//
// Example usage:
//
//	result, err := build.Run(ctx, unit, tools, build.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Archive)
package build
