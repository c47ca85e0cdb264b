package palette

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/printlab/filagrid/internal/colorx"
)

func rgb(r, g, b int) colorx.RGB {
	return colorx.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// ReadGPL parses a GIMP palette file.
//
// The format is line oriented: a "GIMP Palette" magic line, optional
// "Name:" and "Columns:" headers, "#" comments, then data lines of
// "R G B [name]" with channels 0-255 separated by arbitrary
// whitespace. Anything that does not parse as a data line is skipped
// silently; only a file yielding zero entries fails, with ErrNoEntries.
func ReadGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		rv, err1 := strconv.Atoi(fields[0])
		gv, err2 := strconv.Atoi(fields[1])
		bv, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if rv < 0 || rv > 255 || gv < 0 || gv > 255 || bv < 0 || bv > 255 {
			continue
		}
		name := ""
		if len(fields) > 3 {
			name = strings.Join(fields[3:], " ")
		}
		p.Add(rgb(rv, gv, bv), name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gpl read: %w", err)
	}
	if len(p.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return p, nil
}

// WriteGPL writes the palette in GIMP palette format: the four header
// lines, then one "R G B name" line per entry in palette order.
func WriteGPL(w io.Writer, p *Palette) error {
	name := p.Name
	if name == "" {
		name = "filagrid"
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "GIMP Palette")
	fmt.Fprintf(bw, "Name: %s\n", name)
	fmt.Fprintln(bw, "Columns: 8")
	fmt.Fprintln(bw, "#")
	for i, e := range p.Entries {
		n := e.Name
		if n == "" {
			n = fmt.Sprintf("colour-%d", i)
		}
		fmt.Fprintf(bw, "%3d %3d %3d %s\n", e.Color.R, e.Color.G, e.Color.B, n)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gpl write: %w", err)
	}
	return nil
}
