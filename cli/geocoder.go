package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"termometro/geo"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// ErrAddressLookup is returned when an address cannot be geocoded.
var ErrAddressLookup = errors.New("no se pudo ubicar la dirección")

// Geocoder resolves a free-form address to a coordinate.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (geo.Coordinate, error)
}

type NominatimGeocoder struct {
	http    *resty.Client
	baseURL string
}

func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		http:    resty.New().SetTimeout(10*time.Second).SetHeader("User-Agent", "termometro-cli/1.0"),
		baseURL: defaultNominatimURL,
	}
}

// Nominatim answers lat/lon as strings.
type degrees float64

func (d *degrees) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parse coordinate %q: %w", text, err)
		}
		*d = degrees(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("coordinate must be a string or number")
	}
	*d = degrees(v)
	return nil
}

type nominatimResult struct {
	Lat degrees `json:"lat"`
	Lon degrees `json:"lon"`
}

func (g *NominatimGeocoder) Lookup(ctx context.Context, address string) (geo.Coordinate, error) {
	var results []nominatimResult
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": address, "format": "json", "limit": "1"}).
		SetResult(&results).
		Get(g.baseURL)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrAddressLookup, err)
	}
	if resp.IsError() || len(results) == 0 {
		return geo.Coordinate{}, ErrAddressLookup
	}

	c := geo.Coordinate{Lat: float64(results[0].Lat), Lon: float64(results[0].Lon)}
	if !c.Valid() {
		return geo.Coordinate{}, ErrAddressLookup
	}
	return c, nil
}
