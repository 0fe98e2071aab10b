// Package profiles manages named selections of mods.
//
// A profile is a JSON record in the profiles folder holding the IDs of the
// mods it enables. Loading a profile enables exactly those mods, disables
// every other one and marks the profile as the active one.
package profiles
