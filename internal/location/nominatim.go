package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// NominatimClient reverse geocodes through a Nominatim compatible /reverse endpoint.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

func (that *NominatimClient) ReverseGeocode(ctx context.Context, coords Coordinates) (string, error) {
	endpoint, err := url.JoinPath(that.baseURL, "reverse")
	if err != nil {
		return "", fmt.Errorf("%w: bad base url: %w", apperror.ErrLookupFailed, err)
	}

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", that.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", apperror.ErrLookupFailed, resp.StatusCode)
	}

	var body reverseResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", apperror.ErrLookupFailed, err)
	}

	// nominatim answers 200 with an error field for places it can't geocode (open sea)
	if body.Error != "" {
		return "", fmt.Errorf("%w: %s", apperror.ErrCityNotFound, body.Error)
	}

	for _, name := range []string{body.Address.City, body.Address.Town, body.Address.Village, body.Address.Municipality} {
		if name != "" {
			return name, nil
		}
	}

	return "", apperror.ErrCityNotFound
}
