// Package paths provides centralized path handling for modpatch.
//
// Every folder the core touches is resolved here once, from the
// configuration with XDG fallbacks:
//
//   - Enabled mods: folders.enabled (default $XDG_DATA_HOME/modpatch/mods/enabled)
//   - Disabled mods: folders.disabled (default $XDG_DATA_HOME/modpatch/mods/disabled)
//   - Profiles: folders.profiles (default $XDG_DATA_HOME/modpatch/profiles)
//   - Work: folders.work (default $XDG_CACHE_HOME/modpatch), holding
//     extract/ (per-mod staging) and ModManager/ (the tree that gets packed)
//   - Game paks: <game.content_dir>/Paks
//
// # Environment Variables
//
//   - MODPATCH_DATA_DIR: Override the data directory default
//   - MODPATCH_CACHE_DIR: Override the cache directory default
package paths
