package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// ANSI color codes (Tokyo Night palette)
const (
	ColorReset     = "\033[0m"
	ColorRed       = "\033[38;2;215;95;107m"  // #d75f6b
	ColorGreen     = "\033[38;2;158;206;106m" // #9ece6a
	ColorYellow    = "\033[38;2;224;175;104m" // #e0af68
	ColorGray      = "\033[38;2;86;95;137m"   // #565f89
	ColorBold      = "\033[1m"
	ColorUnderline = "\033[4m"
)

// Symbols
const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
	Star  = "★"
)

type ctxKey struct{}

// Printer writes status lines for CLI commands. Command output meant for
// piping (tables, JSON) goes to the command's writer instead.
type Printer struct {
	writer io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{writer: w}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) writeln(s string) {
	_, _ = io.WriteString(p.writer, s+"\n")
}

func colorize(color, text string) string {
	return color + text + ColorReset
}

// FatalError prints err in a boxed block. It does not exit.
// Validation errors from config loading are listed one field per line.
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		p.box("Error", []string{colorize(ColorGray, err.Error())})
		return
	}

	var body []string
	// keep the wrapping context, e.g. "load config", above the field list
	if prefix, _, ok := strings.Cut(err.Error(), fieldErrs.Error()); ok && prefix != "" {
		body = append(body, colorize(ColorGray, strings.TrimSuffix(prefix, ": ")), "")
	}

	for _, fe := range fieldErrs {
		line := colorize(ColorRed, Cross) + " "
		if fe.Field != "" {
			line += colorize(ColorGray, fe.Field+": ")
		}
		body = append(body, line+fe.Err.Error())
	}

	p.box("Validation Error", body)
}

func (p *Printer) box(title string, body []string) {
	p.writeln(colorize(ColorRed, "╭ "+title))
	for _, line := range body {
		p.writeln(strings.TrimRight(colorize(ColorRed, "│")+" "+line, " "))
	}
	p.writeln(colorize(ColorRed, "╵"))
}

// Successf prints a green check line.
func (p *Printer) Successf(format string, args ...any) {
	p.writeln(colorize(ColorGreen, Check+" "+fmt.Sprintf(format, args...)))
}

// Success prints a green check line followed by indented gray details.
func (p *Printer) Success(message string, details string) {
	p.Successf("%s", message)
	if details != "" {
		p.writeln("  " + colorize(ColorGray, details))
	}
}

// Infof prints a gray bullet line.
func (p *Printer) Infof(format string, args ...any) {
	p.writeln(colorize(ColorGray, Dot+" "+fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow bullet line.
func (p *Printer) Warnf(format string, args ...any) {
	p.writeln(colorize(ColorYellow, Dot+" "+fmt.Sprintf(format, args...)))
}

// Bold makes text bold
func (p *Printer) Bold(text string) string {
	return ColorBold + text + ColorReset
}

// Section prints a bold, underlined header.
func (p *Printer) Section(title string) {
	p.writeln(ColorBold + ColorUnderline + title + ColorReset)
}

// Stat prints a labelled value, padded so consecutive stats line up.
func (p *Printer) Stat(label string, value int) {
	p.writeln("  " + colorize(ColorGray, fmt.Sprintf("%-16s", label+":")) + " " + p.Bold(fmt.Sprint(value)))
}

// FavoriteMark returns a yellow star for favorite records and padding otherwise,
// for use in tables.
func FavoriteMark(favorite bool) string {
	if favorite {
		return colorize(ColorYellow, Star)
	}
	return " "
}

// Muted returns text in gray for use in tables. Every cell of a tabwriter
// column must be muted for the column to stay aligned.
func Muted(text string) string {
	return colorize(ColorGray, text)
}
