package scan

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/printlab/filagrid/internal/colorx"
	"github.com/printlab/filagrid/internal/sequence"
)

func TestWriteReport(t *testing.T) {
	swatches := []sequence.Swatch{
		{Hex: "#FF0000", Name: "Red"},
		{Hex: "#0000FF", Name: "Blue"},
	}
	seqs := []sequence.Sequence{{1, 0}, {2, 0}, {1, 2}}
	measured := []colorx.RGB{
		{R: 255, G: 0, B: 0},   // exact
		{R: 10, G: 10, B: 245}, // slightly off
		{R: 128, G: 0, B: 128}, // exact
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, seqs, swatches, 2, measured); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != "cell,row,col,sequence,expected,measured,dist_rgb,delta_e" {
		t.Errorf("header = %q", got)
	}

	// Row 0: exact match on a 2-wide grid.
	r0 := records[1]
	if r0[0] != "0" || r0[1] != "0" || r0[2] != "0" {
		t.Errorf("row 0 position = %v", r0[:3])
	}
	if r0[3] != "1-0" {
		t.Errorf("row 0 sequence = %q, want 1-0", r0[3])
	}
	if r0[4] != "#FF0000" || r0[5] != "#FF0000" {
		t.Errorf("row 0 colors = %q/%q", r0[4], r0[5])
	}
	if r0[6] != "0.00" || r0[7] != "0.00" {
		t.Errorf("row 0 distances = %q/%q, want zero", r0[6], r0[7])
	}

	// Row 2 sits at cell 2 of a 2-wide grid: row 1, col 0.
	r2 := records[3]
	if r2[1] != "1" || r2[2] != "0" {
		t.Errorf("row 2 grid position = %v, want row 1 col 0", r2[1:3])
	}

	// The off measurement must report nonzero distances.
	r1 := records[2]
	if r1[6] == "0.00" || r1[7] == "0.00" {
		t.Errorf("row 1 distances = %q/%q, want nonzero", r1[6], r1[7])
	}
}

func TestWriteReportShortMeasuredList(t *testing.T) {
	swatches := []sequence.Swatch{{Hex: "#FF0000", Name: "Red"}}
	seqs := []sequence.Sequence{{1}, {1}}
	var buf bytes.Buffer
	if err := WriteReport(&buf, seqs, swatches, 1, []colorx.RGB{{R: 255, G: 0, B: 0}}); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want header + 1 covered row", len(records))
	}
}

func TestWriteReportRejectsBadColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, nil, nil, 0, nil); err == nil {
		t.Error("expected error for cols < 1")
	}
}
