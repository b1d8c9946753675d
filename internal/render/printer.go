// Package render writes decoded tokens and keys to a terminal or pipe.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrschumacher/jwt-debugger/internal/decoder"
	"github.com/mattn/go-isatty"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatPretty OutputFormat = "pretty"
	OutputFormatJSON   OutputFormat = "json"
)

const (
	headerColor           = "251;1;91"
	payloadColor          = "214;58;255"
	signatureColor        = "0;185;241"
	signatureInvalidColor = "255;0;0"
	signatureSkipColor    = "170;170;170"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
	color  bool
}

// NewPrinter creates a new Printer. Colors are only used in pretty format
// when writer is a terminal.
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
		color:  isTerminal(writer),
	}
}

// WithColor forces colored output on or off.
func (p *Printer) WithColor(on bool) *Printer {
	p.color = on
	return p
}

// PrintDecodedToken prints a decoded token in the printer's format.
func (p *Printer) PrintDecodedToken(t *decoder.DecodedToken) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]any{
			"header":  t.Header,
			"payload": t.Payload,
		})
	case OutputFormatPretty:
		return p.printPretty(t)
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintJSON prints v as indented JSON regardless of format.
func (p *Printer) PrintJSON(v any) error {
	return p.printJSON(v)
}

func (p *Printer) printPretty(t *decoder.DecodedToken) error {
	segs, err := decoder.Split(t.Raw)
	if err != nil {
		return err
	}

	header, err := indentJSON(t.Header)
	if err != nil {
		return err
	}
	payload, err := indentJSON(t.Payload)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("Encoded Token\n")
	sb.WriteString(p.paint(headerColor, segs.Header))
	sb.WriteString(".")
	sb.WriteString(p.paint(payloadColor, segs.Payload))
	sb.WriteString(".")
	sb.WriteString(p.paint(signatureColor, segs.Signature))
	sb.WriteString("\n\nDecoded Token\n")
	sb.WriteString(p.paint(headerColor, "Header\n"+header))
	sb.WriteString("\n\n")
	sb.WriteString(p.paint(payloadColor, "Payload\n"+payload))
	sb.WriteString("\n\n")

	switch t.Verification {
	case decoder.Verified:
		sb.WriteString(p.paint(signatureColor, "Signature Verified"))
	case decoder.NotVerified:
		sb.WriteString(p.paint(signatureInvalidColor, "Invalid Signature"))
	default:
		sb.WriteString(p.paint(signatureSkipColor, "Skipped Signature Verification"))
	}
	sb.WriteString("\n")

	_, err = io.WriteString(p.writer, sb.String())
	return err
}

func (p *Printer) printJSON(v any) error {
	out, err := indentJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.writer, out)
	return err
}

// paint wraps s in a 24-bit foreground color escape.
func (p *Printer) paint(rgb, s string) string {
	if !p.color {
		return s
	}
	return "\x1b[38;2;" + rgb + "m" + s + "\x1b[0m"
}

func indentJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(out), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
