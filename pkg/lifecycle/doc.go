// Package lifecycle adds, enables, disables and deletes mods, and updates
// their user-facing metadata.
//
// A mod's folder and its Enabled flag change together: enable and disable
// validate the archive by extracting it first and only then flip the flag
// and move the archive, sidecar and logo. A mod that fails validation is
// returned untouched.
package lifecycle
