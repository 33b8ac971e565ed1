// Package scoreboard renders match snapshots for people and for tools.
package scoreboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tennisx"
)

// Format selects a rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatDOT}

var ErrUnknownFormat = errors.New("scoreboard: unknown format")

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// Render writes snap to w in format f. depth limits how many levels Text
// and DOT descend below the root; 0 renders the whole tree.
func Render(w io.Writer, f Format, snap tennisx.Snapshot, depth int) error {
	switch f {
	case FormatText:
		return Text(w, snap, depth)
	case FormatJSON:
		return JSON(w, snap)
	case FormatYAML:
		return YAML(w, snap)
	case FormatDOT:
		return DOT(w, snap, depth)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Text writes one indented line per unit.
func Text(w io.Writer, snap tennisx.Snapshot, depth int) error {
	var b strings.Builder
	writeText(&b, snap, "", 0, depth)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, snap tennisx.Snapshot, number string, level, depth int) {
	b.WriteString(strings.Repeat("  ", level))
	b.WriteString(title(snap, number))
	b.WriteString(": ")
	b.WriteString(line(snap))
	b.WriteString("\n")
	if depth > 0 && level >= depth {
		return
	}
	for i, c := range snap.Children {
		writeText(b, c, strconv.Itoa(i+1), level+1, depth)
	}
}

func title(snap tennisx.Snapshot, number string) string {
	if number == "" {
		return string(snap.Kind)
	}
	return string(snap.Kind) + " " + number
}

// line renders "Ana 40-AD Bea (serving Ana)" style scores.
func line(snap tennisx.Snapshot) string {
	if len(snap.Players) != 2 || len(snap.Scores) != 2 {
		return "?"
	}
	s := fmt.Sprintf("%s %s-%s %s", snap.Players[0],
		Points(snap.Kind, snap.Scores[0]), Points(snap.Kind, snap.Scores[1]), snap.Players[1])
	switch {
	case snap.Finished:
		s += " (won by " + snap.Winner + ")"
	case snap.Retired:
		s += " (retired)"
	case snap.Kind == tennisx.KindGame || snap.Kind == tennisx.KindTieBreak:
		if snap.Server == 0 || snap.Server == 1 {
			s += " (serving " + snap.Players[snap.Server] + ")"
		}
	}
	return s
}

// Points formats a score the way it is called on court.
func Points(kind tennisx.Kind, points int) string {
	if kind == tennisx.KindGame {
		switch points {
		case tennisx.Advantage:
			return "AD"
		case tennisx.GameWon:
			return "W"
		}
	}
	return strconv.Itoa(points)
}

// JSON writes snap as indented JSON.
func JSON(w io.Writer, snap tennisx.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// YAML writes snap as a YAML document.
func YAML(w io.Writer, snap tennisx.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

// DOT writes snap as a Graphviz digraph, one node per unit. Winners' nodes
// are filled and live units are highlighted.
func DOT(w io.Writer, snap tennisx.Snapshot, depth int) error {
	var b strings.Builder
	b.WriteString(`digraph Match {
  rankdir=TB;
  node [shape=box, fontsize=10, style=rounded];
`)
	writeNode(&b, snap, "", 0, depth)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, snap tennisx.Snapshot, number string, level, depth int) {
	style := ""
	switch {
	case snap.Finished:
		style = ` style="rounded,filled" fillcolor=lightgreen`
	case level > 0:
		style = ` style="rounded,filled" fillcolor=orange`
	}
	fmt.Fprintf(b, "  %q [label=%q%s];\n", snap.ID, title(snap, number)+"\n"+line(snap), style)
	if depth > 0 && level >= depth {
		return
	}
	for i, c := range snap.Children {
		writeNode(b, c, strconv.Itoa(i+1), level+1, depth)
		fmt.Fprintf(b, "  %q -> %q;\n", snap.ID, c.ID)
	}
}
