// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/arthur-debert/modpatch/pkg/ui/view"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderMods prints one tab-aligned line per mod.
func (r *Renderer) RenderMods(mods []*types.Mod) error {
	rows := view.Mods(mods)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.output, "No mods found")
		return err
	}
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tNAME\tKIND\tSTATE\tTAGS")
	for _, m := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.Order, m.Name, m.Kind, m.State, m.AllTags())
	}
	return tw.Flush()
}

// RenderProfiles prints one line per profile; the active one is starred.
func (r *Renderer) RenderProfiles(profiles []*types.Profile) error {
	rows := view.Profiles(profiles)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.output, "No profiles found")
		return err
	}
	for _, p := range rows {
		marker := " "
		if p.Active {
			marker = "*"
		}
		if _, err := fmt.Fprintf(r.output, "%s %s: %s\n", marker, p.Name, strings.Join(p.Selected, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
