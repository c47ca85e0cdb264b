package grid

import (
	"encoding/json"
	"fmt"

	"github.com/printlab/filagrid/internal/sequence"
)

// ConfigVersion is the schema version written by ExportJSON.
const ConfigVersion = 1

// ConfigFile is the persisted grid configuration.
//
// It stores only what cannot be recomputed: the selected colours, the
// sequences in grid order, and the physical parameters. The unused-cell
// list and the color index are derived on import; any previously
// persisted index is untrusted by design.
type ConfigFile struct {
	Version  int               `json:"version"`
	Colours  []sequence.Swatch `json:"colours"`
	Seqs     [][]int           `json:"sequences"`
	Settings Settings          `json:"config"`
}

// Settings is the numeric configuration block of a grid file.
type Settings struct {
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	TileMM      float64 `json:"tile"`
	GapMM       float64 `json:"gap"`
	Layers      int     `json:"layers"`
	LayerHeight float64 `json:"layerHeight"`
	BaseLayers  int     `json:"baseLayers"`
}

// ExportJSON serializes a grid for persistence.
func ExportJSON(l *Layout, seqs []sequence.Sequence, swatches []sequence.Swatch, layers int, layerHeight float64, baseLayers int) ([]byte, error) {
	raw := make([][]int, len(seqs))
	for i, s := range seqs {
		raw[i] = []int(s)
	}
	cfg := ConfigFile{
		Version: ConfigVersion,
		Colours: swatches,
		Seqs:    raw,
		Settings: Settings{
			Rows:        l.Rows,
			Cols:        l.Cols,
			TileMM:      l.TileMM,
			GapMM:       l.GapMM,
			Layers:      layers,
			LayerHeight: layerHeight,
			BaseLayers:  baseLayers,
		},
	}
	return json.MarshalIndent(&cfg, "", "  ")
}

// ImportJSON parses a grid configuration and rebuilds the derived
// state: the layout (with a freshly recomputed unused-cell list) and
// the color index built from the imported sequences and colours.
//
// Individual malformed sequences are skipped; the import fails only
// when nothing valid remains.
func ImportJSON(data []byte) (*Layout, []sequence.Sequence, *sequence.Index, *ConfigFile, error) {
	var cfg ConfigFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("grid import: %w", err)
	}
	if cfg.Settings.Rows < 1 || cfg.Settings.Cols < 1 {
		return nil, nil, nil, nil, fmt.Errorf("grid import: invalid dimensions %dx%d", cfg.Settings.Rows, cfg.Settings.Cols)
	}

	seqs := make([]sequence.Sequence, 0, len(cfg.Seqs))
	for _, raw := range cfg.Seqs {
		s := sequence.Sequence(raw)
		if !s.Valid() {
			continue
		}
		seqs = append(seqs, s)
	}
	if len(seqs) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("grid import: no valid sequences")
	}
	if len(seqs) > cfg.Settings.Rows*cfg.Settings.Cols {
		return nil, nil, nil, nil, fmt.Errorf("grid import: %d sequences exceed %dx%d grid",
			len(seqs), cfg.Settings.Rows, cfg.Settings.Cols)
	}

	unused := make([]int, 0, cfg.Settings.Rows*cfg.Settings.Cols-len(seqs))
	for i := len(seqs); i < cfg.Settings.Rows*cfg.Settings.Cols; i++ {
		unused = append(unused, i)
	}
	l := &Layout{
		Rows:        cfg.Settings.Rows,
		Cols:        cfg.Settings.Cols,
		TileMM:      cfg.Settings.TileMM,
		GapMM:       cfg.Settings.GapMM,
		WidthMM:     float64(cfg.Settings.Cols)*cfg.Settings.TileMM + float64(cfg.Settings.Cols-1)*cfg.Settings.GapMM,
		HeightMM:    float64(cfg.Settings.Rows)*cfg.Settings.TileMM + float64(cfg.Settings.Rows-1)*cfg.Settings.GapMM,
		UnusedCells: unused,
	}

	idx, err := sequence.Build(seqs, cfg.Colours, l.Cols)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("grid import: %w", err)
	}
	return l, seqs, idx, &cfg, nil
}
