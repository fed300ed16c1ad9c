// Command genmock reads a station fire-weather CSV and generates the mock
// fixtures used by the test suites: the raw observation JSON consumed from the
// source topic and the fire behaviour predictions the pipeline should emit.
// It runs the real domain and catalogue packages so the expected output
// matches pipeline behaviour.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/station_fire_weather.csv \
//	  -catalogue config/stations.toml \
//	  -raw-out data/mock/station_fire_weather.json \
//	  -predictions-out data/mock/fire_behaviour_predictions.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/fbp-etl/internal/catalogue"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "station fire-weather CSV file")
	cataloguePath := flag.String("catalogue", "config/stations.toml", "station catalogue (TOML or YAML)")
	rawOut := flag.String("raw-out", "", "output path for the raw observation JSON fixture")
	predictionsOut := flag.String("predictions-out", "", "output path for the prediction JSON fixture")
	flag.Parse()

	if *csvPath == "" || *rawOut == "" || *predictionsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -raw-out, -predictions-out")
	}

	stations, err := catalogue.Load(*cataloguePath)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.July, 14, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records, err := readCSV(*csvPath)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}
	log.Printf("observations: %d", len(records))

	predictions, err := predictAll(records, stations)
	if err != nil {
		return err
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*predictionsOut, predictions); err != nil {
		return fmt.Errorf("writing prediction fixture: %w", err)
	}
	log.Printf("wrote prediction fixture: %s", *predictionsOut)

	printStats(predictions)
	return nil
}

func readCSV(path string) ([]domain.RawObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	recs := make([]domain.RawObservation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		rec := domain.RawObservation{
			StationCode: get(row, colIdx, "station_code"),
			StationName: get(row, colIdx, "station_name"),
			Province:    get(row, colIdx, "province"),
			Date:        get(row, colIdx, "date"),
		}
		for col, dst := range map[string]**float64{
			"latitude":   &rec.Latitude,
			"longitude":  &rec.Longitude,
			"elevation":  &rec.Elevation,
			"ffmc":       &rec.FFMC,
			"bui":        &rec.BUI,
			"wind_speed": &rec.WindSpeed,
			"isi":        &rec.ISI,
			"grass_cure": &rec.GrassCure,
		} {
			v, err := optionalFloat(get(row, colIdx, col))
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, col, err)
			}
			*dst = v
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// predictAll runs every observation through the same steps as the pipeline
// transformer, without geocoding.
func predictAll(records []domain.RawObservation, stations *catalogue.Catalogue) ([]domain.Prediction, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var predictions []domain.Prediction //nolint:prealloc // size depends on catalogue fuels

	for i, rec := range records {
		obs, err := domain.ParseObservation(rec)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		station, ok := stations.Lookup(obs.StationCode)
		if !ok {
			return nil, fmt.Errorf("observation %d: station %s not in catalogue", i, obs.StationCode)
		}
		obs = domain.EnrichWithLocation(context.Background(), obs, station, nil, logger)

		for _, fuel := range station.Fuels {
			p, err := domain.PredictFireBehaviour(obs, fuel)
			if err != nil {
				return nil, fmt.Errorf("observation %d: %w", i, err)
			}
			predictions = append(predictions, p)
		}
	}
	return predictions, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type labelCount struct {
	label string
	count int
}

func sortedCounts(m map[string]int) []labelCount {
	out := make([]labelCount, 0, len(m))
	for k, v := range m {
		out = append(out, labelCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

func printStats(predictions []domain.Prediction) {
	fuels := map[string]int{}
	fireTypes := map[string]int{}
	groups := map[string]int{}
	var maxHFI domain.Prediction

	for i := range predictions {
		p := &predictions[i]
		fuels[p.FuelType.String()]++
		fireTypes[string(p.FireType)]++
		groups[strconv.Itoa(p.IntensityGroup)]++
		if p.HFI > maxHFI.HFI {
			maxHFI = *p
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total predictions: %d\n", len(predictions))
	for _, section := range []struct {
		title  string
		counts map[string]int
	}{
		{"By fuel type", fuels},
		{"By fire type", fireTypes},
		{"By intensity group", groups},
	} {
		fmt.Printf("%s:", section.title)
		for _, c := range sortedCounts(section.counts) {
			fmt.Printf(" %s=%d", c.label, c.count)
		}
		fmt.Println()
	}

	if maxHFI.ID != "" {
		fmt.Printf("\nMost intense prediction:\n")
		fmt.Printf("  ID: %s\n", maxHFI.ID)
		fmt.Printf("  Station: %s on %s, fuel %s\n", maxHFI.StationCode, maxHFI.Date, maxHFI.FuelType)
		fmt.Printf("  ROS: %.2f m/min, HFI: %.0f kW/m, CFB: %.2f, fire type: %s\n",
			maxHFI.ROS, maxHFI.HFI, maxHFI.CFB, maxHFI.FireType)
	}
}
