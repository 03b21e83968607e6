package location

import (
	"context"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Geocoder resolves coordinates to a city name.
// It returns apperror.ErrCityNotFound when the place has no locality.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coords Coordinates) (string, error)
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (that Coordinates) Validate() error {
	if math.IsNaN(that.Lat) || math.IsNaN(that.Lon) ||
		that.Lat < -90 || that.Lat > 90 || that.Lon < -180 || that.Lon > 180 {
		return fmt.Errorf("%w: lat %v, lon %v", apperror.ErrBadCoordinates, that.Lat, that.Lon)
	}
	return nil
}

type Color struct {
	R, G, B uint8
}

var White = Color{R: 255, G: 255, B: 255}

func (that Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", that.R, that.G, that.B)
}

func (that Color) MarshalText() ([]byte, error) {
	return []byte(that.Hex()), nil
}

func (that *Color) UnmarshalText(text []byte) error {
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &that.R, &that.G, &that.B); err != nil {
		return fmt.Errorf("invalid color %q: %w", text, err)
	}
	return nil
}

// Label is what the location view shows.
type Label struct {
	Text       string `json:"text"`
	Background Color  `json:"background"`
}

// Result is the outcome of one lookup.
type Result struct {
	Seq   uint64
	City  string
	Err   error
	Label Label
	// Stale is set when a newer lookup had already been applied; Label then holds that newer label.
	Stale bool
}
