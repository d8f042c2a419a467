package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const lookupTimeout = 10 * time.Second

// GoogleProvider geocodes through the Google Geocoding API.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		client:  &http.Client{Timeout: lookupTimeout},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Lookup(ctx context.Context, city string) (*Result, error) {
	u := fmt.Sprintf("%s?address=%s&key=%s", p.baseURL, url.QueryEscape(city), url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google geocode: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google geocode: decode: %w", err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, nil
	}

	first := body.Results[0]
	return &Result{
		Lat:         first.Geometry.Location.Lat,
		Lng:         first.Geometry.Location.Lng,
		DisplayName: first.FormattedAddress,
	}, nil
}

// NominatimProvider geocodes through the OpenStreetMap Nominatim API. Its
// usage policy requires an identifying User-Agent.
type NominatimProvider struct {
	userAgent string
	baseURL   string
	client    *http.Client
}

func NewNominatimProvider(userAgent string) *NominatimProvider {
	if userAgent == "" {
		userAgent = "CharterAPI/1.0 (ops@airrushcharters.example)"
	}
	return &NominatimProvider{
		userAgent: userAgent,
		baseURL:   "https://nominatim.openstreetmap.org/search",
		client:    &http.Client{Timeout: lookupTimeout},
	}
}

func (p *NominatimProvider) Name() string { return "nominatim" }

func (p *NominatimProvider) Lookup(ctx context.Context, city string) (*Result, error) {
	u := fmt.Sprintf("%s?format=json&q=%s&limit=1", p.baseURL, url.QueryEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode: %w", err)
	}
	defer resp.Body.Close()

	// Nominatim returns lat/lon as strings.
	var places []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("nominatim geocode: decode: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode: bad lat %q", places[0].Lat)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode: bad lon %q", places[0].Lon)
	}

	display := places[0].DisplayName
	if display == "" {
		display = city
	}
	return &Result{Lat: lat, Lng: lng, DisplayName: display}, nil
}
