package enums

import "fmt"

// PetSex is the binary sex field on listings.
type PetSex string

const (
	PetSexMacho  PetSex = "Macho"
	PetSexHembra PetSex = "Hembra"
)

var validPetSexes = []PetSex{
	PetSexMacho,
	PetSexHembra,
}

// String implements fmt.Stringer.
func (s PetSex) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PetSex.
func (s PetSex) IsValid() bool {
	for _, candidate := range validPetSexes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePetSex converts raw input into a PetSex.
func ParsePetSex(value string) (PetSex, error) {
	for _, candidate := range validPetSexes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pet sex %q", value)
}

// PetSize is the optional size bucket on listings.
type PetSize string

const (
	PetSizePequeno PetSize = "Pequeño"
	PetSizeMediano PetSize = "Mediano"
	PetSizeGrande  PetSize = "Grande"
)

var validPetSizes = []PetSize{
	PetSizePequeno,
	PetSizeMediano,
	PetSizeGrande,
}

// String implements fmt.Stringer.
func (s PetSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PetSize.
func (s PetSize) IsValid() bool {
	for _, candidate := range validPetSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePetSize converts raw input into a PetSize.
func ParsePetSize(value string) (PetSize, error) {
	for _, candidate := range validPetSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pet size %q", value)
}
