// Package types defines the core data model shared by every modpatch
// component: the Mod entity with its derived FileInfo and persisted
// Metadata, the Profile selection record, and the ArchiveKind variant used to
// dispatch extraction by file extension.
package types
