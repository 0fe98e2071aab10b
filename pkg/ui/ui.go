// Package ui renders command output in terminal (rich), text (plain) or
// JSON form.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/arthur-debert/modpatch/pkg/ui/json"
	"github.com/arthur-debert/modpatch/pkg/ui/terminal"
	"github.com/arthur-debert/modpatch/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	RenderMods(mods []*types.Mod) error
	RenderProfiles(profiles []*types.Profile) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
