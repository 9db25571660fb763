package enums

import "fmt"

// MediaKind scopes an uploaded object to its purpose; each kind carries its
// own mime-type allow-list in the media service.
type MediaKind string

const (
	MediaKindAudio         MediaKind = "audio"
	MediaKindCoverArt      MediaKind = "cover_art"
	MediaKindPlatformLogo  MediaKind = "platform_logo"
	MediaKindRoyaltyReport MediaKind = "royalty_report"
)

var validMediaKinds = []MediaKind{
	MediaKindAudio,
	MediaKindCoverArt,
	MediaKindPlatformLogo,
	MediaKindRoyaltyReport,
}

// String implements fmt.Stringer.
func (k MediaKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MediaKind.
func (k MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
