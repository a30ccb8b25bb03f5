package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `instant,season,holiday,weathersit,temp,cnt
1,1,0,2,0.344167,985
2,1,0,2,0.363478,801
3,2,1,1,0.196364,1349
4,3,0,3,0.2,1562
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"holiday", "holiday"},
		{"  Holiday ", "holiday"},
		{"CNT", "cnt"},
		{"\tWeatherSit\n", "weathersit"},
	}
	for _, tt := range tests {
		if got := NormalizeColumn(tt.in); got != tt.want {
			t.Errorf("NormalizeColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_Success(t *testing.T) {
	path := writeFile(t, t.TempDir(), "all_data.csv", sampleCSV)

	tbl, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tbl.Len())
	}
	if err := RequireColumns(tbl, RequiredColumns...); err != nil {
		t.Errorf("RequireColumns() error = %v", err)
	}
	counts, err := tbl.Floats(ColCount)
	if err != nil {
		t.Fatalf("Floats(cnt) error = %v", err)
	}
	want := []float64{985, 801, 1349, 1562}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("Floats(cnt) = %v, want %v", counts, want)
	}
}

// TestParse_HeadersCaseAndWhitespaceInsensitive verifies that messy headers resolve
// to the same lookups as clean ones.
func TestParse_HeadersCaseAndWhitespaceInsensitive(t *testing.T) {
	csv := "Season,  Holiday ,WEATHERSIT, Temp ,Cnt\n1,1,1,0.5,10\n"
	tbl, err := Parse(strings.NewReader(csv), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, lookup := range []string{"holiday", "  Holiday ", "HOLIDAY"} {
		v, err := tbl.Floats(lookup)
		if err != nil {
			t.Fatalf("Floats(%q) error = %v", lookup, err)
		}
		if len(v) != 1 || v[0] != 1 {
			t.Errorf("Floats(%q) = %v, want [1]", lookup, v)
		}
	}
	if got := tbl.Names(); !reflect.DeepEqual(got, []string{"season", "holiday", "weathersit", "temp", "cnt"}) {
		t.Errorf("Names() = %v", got)
	}
}

// TestParse_ByteOrderMark verifies a UTF-8 BOM written by spreadsheet exports
// does not become part of the first column name.
func TestParse_ByteOrderMark(t *testing.T) {
	tbl, err := Parse(strings.NewReader("\ufeffweathersit,season,holiday,temp,cnt\n1,1,0,0.5,10\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := tbl.Names()[0]; got != ColWeather {
		t.Errorf("Names()[0] = %q, want %q", got, ColWeather)
	}
	if err := RequireColumns(tbl, RequiredColumns...); err != nil {
		t.Errorf("RequireColumns() error = %v", err)
	}
}

// TestParse_BlankCellsAreMissing verifies blank numeric cells load as missing
// values rather than zeros.
func TestParse_BlankCellsAreMissing(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,cnt\n1,10\n2,\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	counts, err := tbl.Floats(ColCount)
	if err != nil {
		t.Fatalf("Floats() error = %v", err)
	}
	if counts[0] != 10 || !math.IsNaN(counts[1]) {
		t.Errorf("Floats(cnt) = %v, want [10 NaN]", counts)
	}
}

func TestParse_CustomDelimiter(t *testing.T) {
	csv := "season;holiday;weathersit;temp;cnt\n2;0;1;0.4;30\n"
	tbl, err := Parse(strings.NewReader(csv), ';')
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := RequireColumns(tbl, RequiredColumns...); err != nil {
		t.Errorf("RequireColumns() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 0)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Load() error = %v, want ErrDataUnavailable", err)
	}
}

func TestParse_Unparseable(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"ragged":     "season,cnt\n1,2,3\n",
		"bare quote": "season,cnt\n1,\"2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(content), 0)
			if !errors.Is(err, ErrDataUnavailable) {
				t.Errorf("Parse() error = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

// TestParse_HeaderOnly verifies a header without rows loads as an empty table so
// renderers can report the empty state.
func TestParse_HeaderOnly(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,holiday,weathersit,temp,cnt\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
	if err := RequireColumns(tbl, RequiredColumns...); err != nil {
		t.Errorf("RequireColumns() error = %v", err)
	}
}

func TestRequireColumns_ReportsAllMissing(t *testing.T) {
	tbl, err := Parse(strings.NewReader("season,cnt\n1,2\n"), 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	err = RequireColumns(tbl, RequiredColumns...)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("RequireColumns() error = %v, want ErrMissingColumn", err)
	}
	for _, col := range []string{"weathersit", "temp", "holiday"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not mention %q", err.Error(), col)
		}
	}
}

func TestFloats_MissingColumn(t *testing.T) {
	tbl, _ := Parse(strings.NewReader(sampleCSV), 0)
	if _, err := tbl.Floats("registered"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Floats(registered) error = %v, want ErrMissingColumn", err)
	}
}
