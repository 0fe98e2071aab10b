// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/style"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/arthur-debert/modpatch/pkg/ui/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pterm/pterm"
)

// Renderer prints lipgloss tables and pterm messages.
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderMods prints mods as a table, one row per mod.
func (r *Renderer) RenderMods(mods []*types.Mod) error {
	rows := view.Mods(mods)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("No mods found"))
		return err
	}

	states := make([]style.State, len(rows))
	data := make([][]string, len(rows))
	for i, m := range rows {
		states[i] = m.State
		data[i] = []string{strconv.Itoa(m.Order), m.Name, m.Kind, string(m.State), m.AllTags()}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.TableBorderStyle).
		Headers("ORDER", "NAME", "KIND", "STATE", "TAGS").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return style.TableHeaderStyle
			case col == 3 && row >= 0 && row < len(states):
				return style.TableCellStyle.Foreground(style.StateColor(states[row]))
			case col == 4:
				return style.TableCellStyle.Foreground(style.InfoColor)
			default:
				return style.TableCellStyle
			}
		})

	_, err := fmt.Fprintln(r.output, t.Render())
	return err
}

// RenderProfiles prints profiles with the active one highlighted.
func (r *Renderer) RenderProfiles(profiles []*types.Profile) error {
	rows := view.Profiles(profiles)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("No profiles found"))
		return err
	}
	for _, p := range rows {
		marker := "  "
		name := style.NormalStyle.Render(p.Name)
		if p.Active {
			marker = style.SuccessStyle.Render("* ")
			name = style.SuccessStyle.Render(p.Name)
		}
		selected := style.MutedStyle.Render(strings.Join(p.Selected, ", "))
		if _, err := fmt.Fprintf(r.output, "%s%s  %s\n", marker, name, selected); err != nil {
			return err
		}
	}
	return nil
}

// RenderError prints err with the pterm error prefix.
func (r *Renderer) RenderError(err error) error {
	pterm.Error.WithWriter(r.output).Println(err.Error())
	return nil
}

// RenderMessage prints msg with the pterm info prefix.
func (r *Renderer) RenderMessage(msg string) error {
	pterm.Info.WithWriter(r.output).Println(msg)
	return nil
}
