package informer

var messages = map[Code]string{
	ToolDisabled:      "Packer tool is disabled in the configuration",
	ToolFolderMissing: "Packer tool folder is not set or does not exist",
	ToolMissing:       "Packer tool executable was not found in its folder",

	UnpackStarted:   "Unpacking mods",
	UnpackCleanup:   "Reset {count} inactive mods in {elapsed}",
	UnpackNothing:   "No enabled mods to unpack",
	UnpackModDone:   "Unpacked {name}",
	UnpackModFailed: "Could not unpack {name}: {reason}",
	UnpackFinished:  "Unpacked {count} mods in {elapsed}",

	PackStarted:        "Packing merged content",
	PackStagingMissing: "Nothing has been unpacked yet",
	PackFolderFailed:   "Could not pack {name}",
	PackFinished:       "Packed {count} files in {elapsed}",

	PatchGameFolderMissing: "Game folder is not configured",
	PatchCleanup:           "Removed stale content of {count} disabled mods in {elapsed}",
	PatchNoArtifacts:       "Packing produced no files",
	PatchInstalled:         "Installed {name}",
	PatchStatus:            "Marked {count} mods active in {elapsed}",
	PatchFinished:          "Patch applied in {elapsed}",

	UnpatchNone:     "No patch files found",
	UnpatchFinished: "Removed {count} patch files",

	ModAdded:            "Added {name}",
	ModEnabled:          "Enabled {name}",
	ModDisabled:         "Disabled {name}",
	ModDeleted:          "Deleted {name}",
	ModValidationFailed: "{name} is not a valid mod: {reason}",

	ProfileLoaded: "Loaded profile {name}",
}

func messageFor(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return string(code)
}

// Severity classifies codes for rendering.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

var severities = map[Code]Severity{
	ToolDisabled:           SeverityError,
	ToolFolderMissing:      SeverityError,
	ToolMissing:            SeverityError,
	UnpackNothing:          SeverityWarning,
	UnpackModFailed:        SeverityWarning,
	UnpackFinished:         SeveritySuccess,
	PackStagingMissing:     SeverityError,
	PackFolderFailed:       SeverityWarning,
	PackFinished:           SeveritySuccess,
	PatchGameFolderMissing: SeverityError,
	PatchNoArtifacts:       SeverityError,
	PatchFinished:          SeveritySuccess,
	UnpatchNone:            SeverityWarning,
	UnpatchFinished:        SeveritySuccess,
	ModAdded:               SeveritySuccess,
	ModValidationFailed:    SeverityWarning,
	ProfileLoaded:          SeveritySuccess,
}

// SeverityOf returns the highest severity among codes.
func SeverityOf(codes []Code) Severity {
	worst := SeverityInfo
	for _, c := range codes {
		if s := severities[c]; s > worst {
			worst = s
		}
	}
	return worst
}
