package sequence

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateOrder2x2(t *testing.T) {
	got, err := Generate(2, 2)
	if err != nil {
		t.Fatalf("Generate(2,2): %v", err)
	}
	want := []Sequence{
		{1, 0}, {2, 0},
		{1, 1}, {1, 2}, {2, 1}, {2, 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate(2,2) = %v, want %v", got, want)
	}
}

func TestGenerateCardinality(t *testing.T) {
	tests := []struct {
		n, m int
		want int
	}{
		{2, 1, 2},
		{2, 2, 6},
		{2, 3, 14},
		{3, 2, 12},
		{3, 3, 39},
		{4, 4, 340},
		{1, 1, 1},
		{1, 5, 5},
	}
	for _, tt := range tests {
		got, err := Generate(tt.n, tt.m)
		if err != nil {
			t.Fatalf("Generate(%d,%d): %v", tt.n, tt.m, err)
		}
		if len(got) != tt.want {
			t.Errorf("Generate(%d,%d) produced %d sequences, want %d", tt.n, tt.m, len(got), tt.want)
		}
		if c := Count(tt.n, tt.m); c != tt.want {
			t.Errorf("Count(%d,%d) = %d, want %d", tt.n, tt.m, c, tt.want)
		}
	}
}

func TestGenerateInvariants(t *testing.T) {
	for _, dims := range [][2]int{{2, 1}, {2, 4}, {3, 3}, {5, 2}, {1, 4}} {
		n, m := dims[0], dims[1]
		seqs, err := Generate(n, m)
		if err != nil {
			t.Fatalf("Generate(%d,%d): %v", n, m, err)
		}
		seen := make(map[string]bool, len(seqs))
		for _, s := range seqs {
			if len(s) != m {
				t.Fatalf("Generate(%d,%d): sequence %v has length %d", n, m, s, len(s))
			}
			if !s.Valid() {
				t.Errorf("Generate(%d,%d): invalid sequence %v", n, m, s)
			}
			for _, f := range s {
				if f < 0 || f > n {
					t.Errorf("Generate(%d,%d): entry %d out of range in %v", n, m, f, s)
				}
			}
			key := ""
			for _, f := range s {
				key += string(rune('0' + f))
			}
			if seen[key] {
				t.Errorf("Generate(%d,%d): duplicate sequence %v", n, m, s)
			}
			seen[key] = true
		}
	}
}

func TestGenerateDegenerateSingleFilament(t *testing.T) {
	got, err := Generate(1, 3)
	if err != nil {
		t.Fatalf("Generate(1,3): %v", err)
	}
	want := []Sequence{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate(1,3) = %v, want %v", got, want)
	}
}

func TestGenerateConfigError(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {-1, 1}, {2, 0}, {3, -2}} {
		_, err := Generate(dims[0], dims[1])
		var cfgErr *ConfigError
		if err == nil {
			t.Fatalf("Generate(%d,%d): expected error", dims[0], dims[1])
		}
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Generate(%d,%d): error %T, want *ConfigError", dims[0], dims[1], err)
		}
		if cfgErr.Filaments != dims[0] || cfgErr.Layers != dims[1] {
			t.Errorf("ConfigError carries (%d,%d), want (%d,%d)",
				cfgErr.Filaments, cfgErr.Layers, dims[0], dims[1])
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		seq  Sequence
		want bool
	}{
		{Sequence{1, 2, 0}, true},
		{Sequence{1, 0, 2}, false},
		{Sequence{0, 0, 0}, false},
		{Sequence{0, 1}, false},
		{Sequence{3}, true},
		{Sequence{}, false},
	}
	for _, tt := range tests {
		if got := tt.seq.Valid(); got != tt.want {
			t.Errorf("Valid(%v) = %v, want %v", tt.seq, got, tt.want)
		}
	}
}

func TestLayersAndMaxLayers(t *testing.T) {
	seqs := []Sequence{{1, 0, 0}, {2, 3, 0}, {1, 1, 1}}
	if got := seqs[1].Layers(); got != 2 {
		t.Errorf("Layers = %d, want 2", got)
	}
	if got := MaxLayers(seqs); got != 3 {
		t.Errorf("MaxLayers = %d, want 3", got)
	}
	if got := MaxLayers(nil); got != 0 {
		t.Errorf("MaxLayers(nil) = %d, want 0", got)
	}
}
