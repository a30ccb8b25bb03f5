package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDropMissing(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,temp,cnt\n1,0.2,10\n1,,20\n2,0.4,\n,0.5,40\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		cols []string
		want []float64
	}{
		{"count only", []string{ColCount}, []float64{10, 20, 40}},
		{"season and count", []string{ColSeason, ColCount}, []float64{10, 20}},
		{"every column", []string{ColSeason, ColTemp, ColCount}, []float64{10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.DropMissing(tt.cols...)
			if err != nil {
				t.Fatalf("DropMissing(%v) error = %v", tt.cols, err)
			}
			counts, err := got.Floats(ColCount)
			if err != nil {
				t.Fatalf("Floats() error = %v", err)
			}
			if !reflect.DeepEqual(counts, tt.want) {
				t.Errorf("DropMissing(%v) counts = %v, want %v", tt.cols, counts, tt.want)
			}
		})
	}
	if tbl.Len() != 4 {
		t.Errorf("DropMissing changed the table: Len() = %d, want 4", tbl.Len())
	}
}

func TestDropMissing_NothingMissing(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleCSV), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := tbl.DropMissing(ColSeason, ColCount)
	if err != nil {
		t.Fatalf("DropMissing() error = %v", err)
	}
	if got != tbl {
		t.Error("DropMissing() copied a table with no missing values")
	}
}

func TestDropMissing_AllMissing(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,cnt\n1,\n2,\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := tbl.DropMissing(ColCount)
	if err != nil {
		t.Fatalf("DropMissing() error = %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
	if !reflect.DeepEqual(got.Names(), tbl.Names()) {
		t.Errorf("Names() = %v, want %v", got.Names(), tbl.Names())
	}
}

func TestDropMissing_MissingColumn(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,cnt\n1,2\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := tbl.DropMissing(ColWeather); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("DropMissing(weathersit) error = %v, want ErrMissingColumn", err)
	}
}
