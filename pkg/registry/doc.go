// Package registry is the data access layer for mods. It scans the enabled
// and disabled folders, builds one Mod per supported archive from the file
// and its sidecar, and keeps the result as a snapshot until it is
// invalidated.
//
// Callers always receive copies; mutating a returned Mod never changes the
// snapshot. Persisting goes through Save, which also drops the snapshot.
package registry
