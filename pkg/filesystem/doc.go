// Package filesystem holds the tree primitives the pipeline is built on:
// recursive merge with an overwrite policy, a recursive file lister,
// clearing a directory's contents, collision-safe naming and file moves.
//
// Everything works on an afero.Fs so that the registry, the lifecycle
// manager and the pipelines can be tested against an in-memory tree.
package filesystem
