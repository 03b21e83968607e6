package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	textCityFormat     = "City: %s"
	textCityNotFound   = "Failed to determine city"
	textLocationFailed = "Failed to determine location"
)

// Resolver turns location updates into a label. Each update is one lookup
// with no retry; the newest applied lookup owns the label.
type Resolver struct {
	logger   *slog.Logger
	geocoder Geocoder

	mu      sync.Mutex
	rnd     *rand.Rand
	issued  uint64
	applied uint64
	label   Label
}

func NewResolver(logger *slog.Logger, geocoder Geocoder, rnd *rand.Rand) *Resolver {
	return &Resolver{
		logger:   logger.With("component", "location_resolver"),
		geocoder: geocoder,
		rnd:      rnd,
		label:    Label{Background: White},
	}
}

// Update - starts a lookup for coords. The channel yields exactly one Result and is then closed.
func (that *Resolver) Update(ctx context.Context, coords Coordinates) <-chan Result {
	that.mu.Lock()
	that.issued++
	seq := that.issued
	that.mu.Unlock()

	out := make(chan Result, 1)

	go func() {
		defer close(out)

		if err := coords.Validate(); err != nil {
			out <- that.apply(seq, "", err)
			return
		}

		city, err := that.geocoder.ReverseGeocode(ctx, coords)
		out <- that.apply(seq, city, err)
	}()

	return out
}

func (that *Resolver) Label() Label {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.label
}

func (that *Resolver) apply(seq uint64, city string, err error) Result {
	log := that.logger.With("method", "apply", "seq", seq)

	that.mu.Lock()
	defer that.mu.Unlock()

	result := Result{Seq: seq, City: city, Err: err}

	// an abandoned lookup says nothing about the location
	if seq < that.applied || errors.Is(err, context.Canceled) {
		log.Debug("discarding stale lookup", "applied", that.applied, "error", err)
		result.Stale = true
		result.Label = that.label
		return result
	}
	that.applied = seq

	switch {
	case err == nil:
		that.label = Label{
			Text:       fmt.Sprintf(textCityFormat, city),
			Background: that.randomColor(),
		}
	case errors.Is(err, apperror.ErrCityNotFound):
		that.label.Text = textCityNotFound
	default:
		log.Error("geocoding failed", "error", err)
		that.label.Text = textLocationFailed
	}

	result.Label = that.label

	return result
}

// randomColor must be called with mu held.
func (that *Resolver) randomColor() Color {
	return Color{
		R: uint8(that.rnd.Intn(256)), //nolint: gosec // bounded by Intn
		G: uint8(that.rnd.Intn(256)), //nolint: gosec // bounded by Intn
		B: uint8(that.rnd.Intn(256)), //nolint: gosec // bounded by Intn
	}
}
