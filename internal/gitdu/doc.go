// Package gitdu provides pack usage statistics for git repositories.
//
// It parses the output of `git verify-pack -v` into object records,
// annotates them with the paths reported by `git rev-list --all --objects`,
// and folds the records into a directory tree of accumulated sizes or into
// per-extension buckets.
package gitdu
