// Package testutil provides helpers for testing modpatch components.
//
// Key components:
//   - Env: configuration, paths and an in-memory filesystem wired together
//   - FakeTool: a packer.Packer that treats paks as zip files on the same fs
//   - MockPacker: func-field mock for failure injection
//   - WriteZip / ReadZip / WritePak: archive fixtures defined inline
//
// Usage guidelines:
//   - Most tests should run on the in-memory fs from NewEnv
//   - Only pkg/packer tests run a real executable
//   - All test data should be defined inline, not in external files
package testutil
