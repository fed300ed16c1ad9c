package catalogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

func fptr(v float64) *float64 { return &v }

var expectedStations = []domain.Station{
	{
		Code:      "KAM",
		Name:      "Kamloops",
		Province:  "BC",
		Latitude:  fptr(50.67),
		Longitude: fptr(-120.48),
		Elevation: fptr(780),
		Fuels: []domain.StationFuel{
			{Type: cffdrs.C3},
			{Type: cffdrs.M1, PC: fptr(60)},
		},
	},
	{
		Code:     "PRG",
		Name:     "Prince George",
		Province: "BC",
		Fuels: []domain.StationFuel{
			{Type: cffdrs.C2, CBH: fptr(4)},
			{Type: cffdrs.O1A, GrassFuelLoad: fptr(0.3)},
		},
	},
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"stations.toml", "stations.yaml"} {
		t.Run(name, func(t *testing.T) {
			c, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, 2, c.Len())
			if diff := cmp.Diff(expectedStations, c.Stations()); diff != "" {
				t.Fatalf("stations mismatch (-want +got):\n%s", diff)
			}

			kam, ok := c.Lookup("KAM")
			require.True(t, ok)
			assert.Equal(t, "Kamloops", kam.Name)

			_, ok = c.Lookup("kam")
			assert.False(t, ok)
		})
	}
}

func TestLoad_RepositoryCatalogue(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "stations.toml"))
	require.NoError(t, err)
	assert.Positive(t, c.Len())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load("stations.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"a.toml", FormatTOML},
		{"dir/B.TOML", FormatTOML},
		{"a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
	}
	for _, tt := range tests {
		f, err := FormatFromPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, f, tt.path)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{
			name:    "syntax error",
			data:    "[[station]\ncode = ",
			message: "parse toml",
		},
		{
			name:    "no stations",
			data:    "",
			message: "validate catalogue",
		},
		{
			name:    "missing code",
			data:    "[[station]]\nname = \"x\"\n[[station.fuel]]\ntype = \"C2\"\n",
			message: "validate catalogue",
		},
		{
			name:    "no fuels",
			data:    "[[station]]\ncode = \"A\"\n",
			message: "validate catalogue",
		},
		{
			name:    "percent conifer out of range",
			data:    "[[station]]\ncode = \"A\"\n[[station.fuel]]\ntype = \"M1\"\npc = 140\n",
			message: "validate catalogue",
		},
		{
			name:    "unknown fuel type",
			data:    "[[station]]\ncode = \"A\"\n[[station.fuel]]\ntype = \"C9\"\n",
			message: "unsupported fuel type",
		},
		{
			name:    "latitude without longitude",
			data:    "[[station]]\ncode = \"A\"\nlatitude = 50.0\n[[station.fuel]]\ntype = \"C2\"\n",
			message: "latitude and longitude",
		},
		{
			name:    "fuel listed twice",
			data:    "[[station]]\ncode = \"A\"\n[[station.fuel]]\ntype = \"C2\"\n[[station.fuel]]\ntype = \"c2\"\n",
			message: "listed twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatTOML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParse_ValidationErrorsExposed(t *testing.T) {
	_, err := Parse([]byte("[[station]]\ncode = \"A\"\n"), FormatTOML)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Fuels", verrs[0].Field())
}

func TestParse_MixedwoodNeedsStandComposition(t *testing.T) {
	tests := []struct {
		fuel  string
		param string
	}{
		{"M1", "PC"},
		{"M2", "PC"},
		{"M3", "PDF"},
		{"M4", "PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.fuel, func(t *testing.T) {
			data := "station:\n  - code: A\n    fuel:\n      - type: " + tt.fuel + "\n"
			_, err := Parse([]byte(data), FormatYAML)

			var mp *cffdrs.MissingParameterError
			require.ErrorAs(t, err, &mp)
			assert.Equal(t, tt.param, mp.Parameter)
		})
	}
}

func TestNew_DuplicateStation(t *testing.T) {
	_, err := New([]domain.Station{{Code: "A"}, {Code: "A"}})
	assert.ErrorIs(t, err, ErrDuplicateStation)

	data := "[[station]]\ncode = \"A\"\n[[station.fuel]]\ntype = \"C2\"\n[[station]]\ncode = \"A\"\n[[station.fuel]]\ntype = \"D1\"\n"
	_, err = Parse([]byte(data), FormatTOML)
	assert.ErrorIs(t, err, ErrDuplicateStation)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), Format("json"))
	assert.Error(t, err)
}
