// Command validate performs end-to-end data integrity checks across the mock
// data of the fire behaviour pipeline: the source CSV, the raw observation
// JSON, and the prediction JSON. It verifies row parity, observation validity,
// prediction reproducibility, and FBP System invariants.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/mock/station_fire_weather.csv \
//	  -catalogue config/stations.toml \
//	  -raw-json data/mock/station_fire_weather.json \
//	  -predictions-json data/mock/fire_behaviour_predictions.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/fbp-etl/internal/catalogue"
	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "station fire-weather CSV file")
	cataloguePath := flag.String("catalogue", "config/stations.toml", "station catalogue (TOML or YAML)")
	rawJSON := flag.String("raw-json", "", "path to the raw observation JSON fixture")
	predictionsJSON := flag.String("predictions-json", "", "path to the prediction JSON fixture")
	flag.Parse()

	if *csvPath == "" || *rawJSON == "" || *predictionsJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *cataloguePath, *rawJSON, *predictionsJSON); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, cataloguePath, rawJSONPath, predictionsJSONPath string) int {
	// Set a fixed clock matching genmock for ProcessedAt reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.July, 14, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	// ── Load all data sources ──
	fmt.Println("=== Fire Behaviour Data Integrity Validation ===")
	fmt.Println()

	rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	stations, err := catalogue.Load(cataloguePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load catalogue: %v\n", err)
		return 1
	}

	raw, err := loadJSON[domain.RawObservation](rawJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	predictions, err := loadJSON[domain.Prediction](predictionsJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load predictions JSON: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateSourceParity(rows, raw),
		validateObservations(raw, stations),
		validatePredictions(predictions, raw, stations),
		validateInvariants(predictions),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV rows, %d raw observations, %d predictions, %d stations\n",
		len(rows), len(raw), len(predictions), stations.Len())

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// csvRow is a parsed CSV row with field values keyed by header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	header := all[0]
	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[strings.TrimSpace(h)] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Phase 1: CSV ↔ raw JSON ──

func validateSourceParity(rows []csvRow, raw []domain.RawObservation) *phase {
	p := &phase{name: "Phase 1: CSV ↔ raw JSON parity"}

	if len(rows) != len(raw) {
		p.errorf("row count: CSV=%d raw JSON=%d", len(rows), len(raw))
		return p
	}

	for i, row := range rows {
		rec := raw[i]
		if row.fields["station_code"] != rec.StationCode {
			p.errorf("line %d: station_code CSV=%q JSON=%q", row.lineNum, row.fields["station_code"], rec.StationCode)
		}
		if row.fields["date"] != rec.Date {
			p.errorf("line %d: date CSV=%q JSON=%q", row.lineNum, row.fields["date"], rec.Date)
		}
		for col, v := range map[string]*float64{
			"latitude":   rec.Latitude,
			"longitude":  rec.Longitude,
			"elevation":  rec.Elevation,
			"ffmc":       rec.FFMC,
			"bui":        rec.BUI,
			"wind_speed": rec.WindSpeed,
			"grass_cure": rec.GrassCure,
		} {
			if !csvFloatEq(row.fields[col], v) {
				p.errorf("line %d: %s CSV=%q JSON=%s", row.lineNum, col, row.fields[col], ptrFloat(v))
			}
		}
	}
	return p
}

// ── Phase 2: raw observations ──

func validateObservations(raw []domain.RawObservation, stations *catalogue.Catalogue) *phase {
	p := &phase{name: "Phase 2: Observation validity"}

	seen := map[string]bool{}
	for i, rec := range raw {
		obs, err := domain.ParseObservation(rec)
		if err != nil {
			p.errorf("[%d] %v", i, err)
			continue
		}
		if _, ok := stations.Lookup(obs.StationCode); !ok {
			p.errorf("[%d] station %s not in catalogue", i, obs.StationCode)
		}
		key := obs.StationCode + "|" + rec.Date
		if seen[key] {
			p.errorf("[%d] duplicate observation for %s on %s", i, obs.StationCode, rec.Date)
		}
		seen[key] = true
	}
	return p
}

// ── Phase 3: predictions reproducible ──

func validatePredictions(predictions []domain.Prediction, raw []domain.RawObservation, stations *catalogue.Catalogue) *phase {
	p := &phase{name: "Phase 3: Predictions reproducible"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	byID := make(map[string]*domain.Prediction, len(predictions))
	for i := range predictions {
		if _, dup := byID[predictions[i].ID]; dup {
			p.errorf("duplicate prediction ID %s", predictions[i].ID)
		}
		byID[predictions[i].ID] = &predictions[i]
	}

	expected := 0
	for i, rec := range raw {
		obs, err := domain.ParseObservation(rec)
		if err != nil {
			continue // reported in phase 2
		}
		station, ok := stations.Lookup(obs.StationCode)
		if !ok {
			continue
		}
		obs = domain.EnrichWithLocation(context.Background(), obs, station, nil, logger)

		for _, fuel := range station.Fuels {
			want, err := domain.PredictFireBehaviour(obs, fuel)
			if err != nil {
				p.errorf("[%d] %s %s: %v", i, obs.StationCode, fuel.Type, err)
				continue
			}
			expected++
			got, ok := byID[want.ID]
			if !ok {
				p.errorf("[%d] missing prediction %s (%s %s %s)", i, want.ID, want.StationCode, want.Date, want.FuelType)
				continue
			}
			comparePredictions(p, want, got)
		}
	}

	if expected != len(predictions) {
		p.errorf("prediction count: expected=%d fixture=%d", expected, len(predictions))
	}
	return p
}

func comparePredictions(p *phase, want domain.Prediction, got *domain.Prediction) {
	id := want.ID
	if want.StationCode != got.StationCode || want.Date != got.Date || want.FuelType != got.FuelType {
		p.errorf("%s: identity mismatch: %s/%s/%s vs %s/%s/%s", id,
			want.StationCode, want.Date, want.FuelType, got.StationCode, got.Date, got.FuelType)
	}
	if want.GeoSource != got.GeoSource {
		p.errorf("%s: geo_source %q vs %q", id, want.GeoSource, got.GeoSource)
	}
	for _, f := range []struct {
		name      string
		want, got float64
	}{
		{"isi", want.ISI, got.ISI},
		{"fmc", want.FMC, got.FMC},
		{"cbh", want.CBH, got.CBH},
		{"sfc", want.SFC, got.SFC},
		{"ros", want.ROS, got.ROS},
		{"cfb", want.CFB, got.CFB},
		{"tfc", want.TFC, got.TFC},
		{"hfi", want.HFI, got.HFI},
		{"lb", want.LB, got.LB},
	} {
		if !floatEq(f.want, f.got) {
			p.errorf("%s: %s expected=%g fixture=%g", id, f.name, f.want, f.got)
		}
	}
	if want.FireType != got.FireType {
		p.errorf("%s: fire_type %q vs %q", id, want.FireType, got.FireType)
	}
	if want.IntensityGroup != got.IntensityGroup {
		p.errorf("%s: intensity_group %d vs %d", id, want.IntensityGroup, got.IntensityGroup)
	}
}

// ── Phase 4: FBP invariants ──

func validateInvariants(predictions []domain.Prediction) *phase {
	p := &phase{name: "Phase 4: FBP System invariants"}
	for i := range predictions {
		checkInvariants(p.errorf, &predictions[i])
	}
	return p
}

func checkInvariants(pf func(string, ...any), e *domain.Prediction) {
	id := e.ID
	if !strings.HasPrefix(id, "fbp-") {
		pf("%s: id missing fbp- prefix", id)
	}
	if e.ROS < cffdrs.MinRateOfSpread {
		pf("%s: ros %g below floor", id, e.ROS)
	}
	if e.CFB < 0 || e.CFB > 1 {
		pf("%s: cfb %g outside [0,1]", id, e.CFB)
	}
	if !e.FuelType.Crowning() && e.CFB != 0 {
		pf("%s: %s does not crown but cfb=%g", id, e.FuelType, e.CFB)
	}
	if !floatEq(e.HFI, 300*e.TFC*e.ROS) {
		pf("%s: hfi %g != 300*tfc*ros", id, e.HFI)
	}
	if g := cffdrs.IntensityGroup(e.HFI); g != e.IntensityGroup {
		pf("%s: intensity_group %d, expected %d", id, e.IntensityGroup, g)
	}
	switch e.FireType {
	case cffdrs.Surface, cffdrs.IntermittentCrown, cffdrs.ContinuousCrown:
	default:
		pf("%s: invalid fire_type %q", id, e.FireType)
	}
	if e.FireType != cffdrs.ClassifyFireType(e.FuelType, e.CFB) {
		pf("%s: fire_type %q inconsistent with cfb %g", id, e.FireType, e.CFB)
	}
	if e.FMC < 85 || e.FMC > 120 {
		pf("%s: fmc %g outside seasonal range", id, e.FMC)
	}
	if e.Geo == nil {
		pf("%s: missing geo", id)
	}
	if e.ProcessedAt.IsZero() {
		pf("%s: missing processed_at", id)
	}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(a))
}

func csvFloatEq(s string, v *float64) bool {
	if s == "" {
		return v == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && v != nil && floatEq(f, *v)
}

func ptrFloat(v *float64) string {
	if v == nil {
		return "<nil>"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
