package modpatch

// Short messages (one-liners)
const (
	MsgRootShort = "Manage, merge and patch game mods"
	MsgRootLong  = `modpatch keeps a library of mod archives (.pak, .zip, .7z, .rar) split into
enabled and disabled folders, merges the content of every enabled mod into a
single tree and packs it into patch files installed into the game's Paks folder.

Typical flow:
  modpatch add ~/Downloads/better-ui.zip
  modpatch apply          # unpack + patch
  modpatch unpatch        # remove the installed patch files`

	MsgListShort    = "List mods and their state"
	MsgAddShort     = "Add mod archives to the library and enable them"
	MsgEnableShort  = "Enable mods"
	MsgDisableShort = "Disable mods"
	MsgDeleteShort  = "Delete mods with their metadata and logo"
	MsgOrderShort   = "Set a mod's load order (higher wins)"
	MsgTagShort     = "Replace a mod's user tags"
	MsgLogoShort    = "Set or clear (with \"\") a mod's logo image"
	MsgRenameShort  = "Set a mod's display name"

	MsgUnpackShort  = "Extract and merge every enabled mod"
	MsgPackShort    = "Pack the merged content into patch artifacts"
	MsgPatchShort   = "Pack the merged content and install it into the game"
	MsgUnpatchShort = "Remove installed patch files from the game"
	MsgApplyShort   = "Unpack, then patch"
	MsgWatchShort   = "Watch the mod folders and re-apply on change"
	MsgDoctorShort  = "Check configuration, folders and the packer tool"

	MsgProfileShort        = "Manage named selections of mods"
	MsgProfileListShort    = "List profiles"
	MsgProfileCreateShort  = "Create a profile from the given mods (default: the enabled ones)"
	MsgProfileDeleteShort  = "Delete a profile"
	MsgProfileLoadShort    = "Enable the profile's mods and disable the rest"
	MsgProfileCurrentShort = "Show the active profile"
	MsgProfileExportShort  = "Write a profile as YAML to stdout"
	MsgProfileImportShort  = "Create a profile from a YAML file"

	MsgConfigShort     = "Inspect and create the configuration file"
	MsgConfigInitShort = "Write a starter configuration file"
	MsgConfigShowShort = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgModsAdded       = "Added %d mod(s)"
	MsgOrderSet        = "%s: order %d"
	MsgTagsSet         = "%s: tags %v"
	MsgLogoSet         = "%s: logo %s"
	MsgLogoCleared     = "%s: logo cleared"
	MsgRenamed         = "%s: name set to %q"
	MsgPackArtifacts   = "Packed %d artifact(s), %d failed"
	MsgUnpackSummary   = "Unpacked %d mod(s), %d failed"
	MsgProfileCreated  = "Created profile %s"
	MsgProfileDeleted  = "Deleted profile %s"
	MsgProfileLoadDiff = "Enabled %d, disabled %d, %d failed"
	MsgConfigWritten   = "Wrote %s"
	MsgWatching        = "Watching %s and %s, press Ctrl+C to stop"
	MsgDoctorOK        = "ok   %s"
	MsgDoctorFail      = "FAIL %s: %v"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrConfigExists = "%s already exists, use --force to overwrite"
	MsgErrDoctor       = "%d check(s) failed"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Configuration file (default $XDG_CONFIG_HOME/modpatch/config.toml)"
	MsgFlagSingleThread = "Process mods one at a time in order"
	MsgFlagSeparate     = "Pack every mod into its own patch file"
	MsgFlagFormat       = "Output format: auto, term, text or json"
	MsgFlagForce        = "Overwrite an existing file"
	MsgFlagNoApply      = "Only report changes instead of re-applying"
)
