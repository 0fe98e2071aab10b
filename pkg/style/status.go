package style

import (
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// State is the most advanced point a mod has reached in the pipeline.
type State string

const (
	StateInvalid  State = "invalid"
	StateDisabled State = "disabled"
	StateEnabled  State = "enabled"
	StateUnpacked State = "unpacked"
	StateActive   State = "active"
)

// StateOf summarizes the flags of md into a single State. An invalid mod
// is reported as invalid whatever its other flags say.
func StateOf(md types.Metadata) State {
	switch {
	case !md.Valid:
		return StateInvalid
	case !md.Enabled:
		return StateDisabled
	case md.Active:
		return StateActive
	case md.Unpacked:
		return StateUnpacked
	default:
		return StateEnabled
	}
}

// StateColor returns the lipgloss color for state.
func StateColor(state State) lipgloss.AdaptiveColor {
	switch state {
	case StateActive:
		return ActiveColor
	case StateUnpacked:
		return UnpackedColor
	case StateEnabled:
		return EnabledColor
	case StateInvalid:
		return InvalidColor
	default:
		return DisabledColor
	}
}

// StateStyle returns the pterm style for state, used for inline labels.
func StateStyle(state State) *pterm.Style {
	switch state {
	case StateActive:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StateUnpacked:
		return pterm.NewStyle(pterm.FgCyan)
	case StateEnabled:
		return pterm.NewStyle(pterm.FgBlue)
	case StateInvalid:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderState returns the styled label for state.
func RenderState(state State) string {
	return StateStyle(state).Sprint(string(state))
}
