package cffdrs

import (
	"strconv"
	"strings"
)

// FuelType is one of the FBP System benchmark fuel types.
// The zero value is not a valid fuel type.
type FuelType uint8

const (
	C1 FuelType = iota + 1
	C2
	C3
	C4
	C5
	C6
	C7
	D1
	M1
	M2
	M3
	M4
	S1
	S2
	S3
	O1A
	O1B
)

var fuelTypeNames = [...]string{
	C1:  "C1",
	C2:  "C2",
	C3:  "C3",
	C4:  "C4",
	C5:  "C5",
	C6:  "C6",
	C7:  "C7",
	D1:  "D1",
	M1:  "M1",
	M2:  "M2",
	M3:  "M3",
	M4:  "M4",
	S1:  "S1",
	S2:  "S2",
	S3:  "S3",
	O1A: "O1A",
	O1B: "O1B",
}

// FuelTypes returns every supported fuel type in table order.
func FuelTypes() []FuelType {
	out := make([]FuelType, 0, len(fuelTypeNames)-1)
	for ft := C1; ft <= O1B; ft++ {
		out = append(out, ft)
	}
	return out
}

// Valid reports whether ft is one of the supported fuel types.
func (ft FuelType) Valid() bool {
	return ft >= C1 && ft <= O1B
}

func (ft FuelType) String() string {
	if !ft.Valid() {
		return "FuelType(" + strconv.Itoa(int(ft)) + ")"
	}
	return fuelTypeNames[ft]
}

// ParseFuelType converts a fuel type tag such as "C2" or "o1a" to a FuelType.
func ParseFuelType(s string) (FuelType, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	for ft := C1; ft <= O1B; ft++ {
		if fuelTypeNames[ft] == tag {
			return ft, nil
		}
	}
	return 0, &UnsupportedFuelTypeError{Value: s}
}

// MarshalText implements encoding.TextMarshaler.
func (ft FuelType) MarshalText() ([]byte, error) {
	if !ft.Valid() {
		return nil, &UnsupportedFuelTypeError{Value: ft.String()}
	}
	return []byte(fuelTypeNames[ft]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ft *FuelType) UnmarshalText(text []byte) error {
	parsed, err := ParseFuelType(string(text))
	if err != nil {
		return err
	}
	*ft = parsed
	return nil
}

// isMixedwood reports whether the fuel is a C2/D1 blend.
func (ft FuelType) isMixedwood() bool {
	return ft >= M1 && ft <= M4
}

// isGrass reports whether the fuel is one of the O1 grass types.
func (ft FuelType) isGrass() bool {
	return ft == O1A || ft == O1B
}

// Crowning reports whether crown fire can develop in the fuel type. Deciduous,
// slash and grass fuels have no crown layer.
func (ft FuelType) Crowning() bool {
	switch ft {
	case C1, C2, C3, C4, C5, C6, C7, M1, M2, M3, M4:
		return true
	default:
		return false
	}
}
