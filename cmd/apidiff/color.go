package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"apidiff/internal/report"
)

// palette styles verdicts and category markers. The zero value prints plain text.
type palette struct {
	enabled  bool
	breaking *color.Color
	minor    *color.Color
	marker   *color.Color
}

// newPalette resolves --color against the destination writer.
func newPalette(mode string, w io.Writer) (*palette, error) {
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		f, ok := w.(*os.File)
		enabled = ok && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	default:
		return nil, fmt.Errorf("invalid --color %q (want auto, on or off)", mode)
	}

	p := &palette{
		enabled:  enabled,
		breaking: color.New(color.FgRed, color.Bold),
		minor:    color.New(color.FgGreen, color.Bold),
		marker:   color.New(color.FgYellow),
	}
	if enabled {
		// fatih/color disables itself when stdout is not a TTY; "on" overrides that.
		p.breaking.EnableColor()
		p.minor.EnableColor()
		p.marker.EnableColor()
	}
	return p, nil
}

func (p *palette) verdict(v report.Verdict) string {
	if !p.enabled {
		return string(v)
	}
	if v == report.VerdictBreaking {
		return p.breaking.Sprint(v)
	}
	return p.minor.Sprint(v)
}

// markerStyle is passed to Report.DescriptionWith. It is nil when color is off.
func (p *palette) markerStyle() func(string) string {
	if !p.enabled {
		return nil
	}
	return func(s string) string { return p.marker.Sprint(s) }
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
