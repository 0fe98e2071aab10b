package informer

import (
	"io"

	"github.com/pterm/pterm"
)

// NewConsole returns an Informer that prints messages with pterm prefixes.
func NewConsole(w io.Writer) Informer {
	printers := map[Severity]pterm.PrefixPrinter{
		SeverityInfo:    *pterm.Info.WithWriter(w),
		SeveritySuccess: *pterm.Success.WithWriter(w),
		SeverityWarning: *pterm.Warning.WithWriter(w),
		SeverityError:   *pterm.Error.WithWriter(w),
	}
	return Func(func(codes []Code, params Params) {
		printer := printers[SeverityOf(codes)]
		printer.Println(Format(codes, params))
	})
}
