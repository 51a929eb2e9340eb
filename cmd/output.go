package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/matheuskafuri/newsticker/internal/source"
)

// printer renders fetch results for the terminal.
type printer struct {
	out       io.Writer
	useColors bool
	now       func() time.Time
}

func newPrinter(out io.Writer) *printer {
	useColors := true
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		useColors = false
	}
	return &printer{out: out, useColors: useColors, now: time.Now}
}

func (p *printer) paint(attrs []color.Attribute, s string) string {
	if !p.useColors {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p *printer) outcome(out source.Outcome) {
	status := p.paint([]color.Attribute{color.FgGreen}, "online")
	if out.Offline {
		status = p.paint([]color.Attribute{color.FgYellow}, "offline")
	}
	fmt.Fprintf(p.out, "%s  %s  %s  %d headline(s)\n",
		p.paint([]color.Attribute{color.FgCyan, color.Bold}, out.Service.Label()),
		status,
		out.Kind,
		len(out.Headlines),
	)
	if out.Kind == source.Empty {
		fmt.Fprintln(p.out, p.paint([]color.Attribute{color.Faint}, "  no headlines available"))
		return
	}
	for _, h := range out.Headlines {
		line := "  " + p.paint([]color.Attribute{color.FgGreen}, h.Source) + " " + h.Title
		if h.TS > 0 {
			line += p.paint([]color.Attribute{color.Faint}, " · "+age(p.now(), time.UnixMilli(h.TS)))
		}
		if h.URL != "" && h.URL != news.NoURL {
			line += "\n    " + p.paint([]color.Attribute{color.Faint, color.Underline}, h.URL)
		}
		fmt.Fprintln(p.out, line)
	}
}

func age(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

type jsonOutcome struct {
	Service    string          `json:"service"`
	Kind       string          `json:"kind"`
	Offline    bool            `json:"offline"`
	ResolvedAt time.Time       `json:"resolved_at"`
	Headlines  []news.Headline `json:"headlines"`
}

func writeJSON(w io.Writer, outs []source.Outcome) error {
	res := make([]jsonOutcome, 0, len(outs))
	for _, o := range outs {
		items := o.Headlines
		if items == nil {
			items = []news.Headline{}
		}
		res = append(res, jsonOutcome{
			Service:    o.Service.String(),
			Kind:       o.Kind.String(),
			Offline:    o.Offline,
			ResolvedAt: o.ResolvedAt,
			Headlines:  items,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
