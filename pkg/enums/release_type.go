package enums

import "fmt"

// ReleaseType classifies a music submission.
type ReleaseType string

const (
	ReleaseTypeSingle ReleaseType = "single"
	ReleaseTypeAlbum  ReleaseType = "album"
	ReleaseTypeEP     ReleaseType = "ep"
)

var validReleaseTypes = []ReleaseType{
	ReleaseTypeSingle,
	ReleaseTypeAlbum,
	ReleaseTypeEP,
}

// String implements fmt.Stringer.
func (t ReleaseType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ReleaseType.
func (t ReleaseType) IsValid() bool {
	for _, candidate := range validReleaseTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseReleaseType converts raw input into a ReleaseType.
func ParseReleaseType(value string) (ReleaseType, error) {
	for _, candidate := range validReleaseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid release type %q", value)
}
