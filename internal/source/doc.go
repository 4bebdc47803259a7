// Package source acquires a recipe's declared source material.
//
// Sources come from git repositories, URLs, or local paths. [Fetch] walks
// the declared list in order, materializes each source into the work
// directory (optionally under a named subfolder), and applies that
// source's patches before moving to the next; patch application is a
// strict per-source barrier, which build reproducibility depends on.
//
// Downloads and git checkouts land in a persistent cache directory shared
// across builds. URL downloads are validated against their declared
// checksum before they are trusted, on both the download and cache-hit
// paths. Archives with a recognized extension are extracted with one
// leading path component stripped; everything else is placed as a plain
// file.
//
// Extraction and patch application shell out to the system tar and patch
// tools; a missing tool is reported as a distinct capability error, not a
// generic I/O failure.
package source
