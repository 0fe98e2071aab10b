// Package repack builds the merged content tree and packs it.
//
// The unpack phase extracts every valid, enabled mod and merges its content
// into the merge root. Mods are grouped by Order and the groups run in
// ascending order, so a higher Order always overwrites a lower one; inside
// a group mods run concurrently and their relative precedence is
// unspecified. In single-thread mode everything runs sequentially in
// ascending Order.
//
// The pack phase hands the merge root, or each of its subfolders when
// deploying on separate files, to the packer tool.
package repack
