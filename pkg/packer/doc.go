// Package packer wraps the external pack/unpack executable.
//
// The tool supports two verbs:
//
//	<tool> [--aes-key <key>] unpack <file>   writes <file without ext>/
//	<tool> [--aes-key <key>] pack <folder>   writes <folder>.pak
//
// Unpack and Pack never return errors. A failed process, a non-zero exit or
// missing expected output all resolve to false, and the captured output is
// logged.
package packer
