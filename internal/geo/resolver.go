// Package geo normalizes loose location inputs (free text, partial objects,
// or trusted coordinates) into stored passenger locations, backed by a
// provider chain and a shared TTL cache.
package geo

import (
	"context"
	"strings"

	"github.com/biter777/countries"
	"github.com/rs/zerolog"

	"github.com/airrush/charter-api/internal/api/metrics"
	"github.com/airrush/charter-api/internal/core/domain"
	"github.com/airrush/charter-api/internal/core/ports"
)

// Result is a raw geocoding hit before it is shaped into a location.
type Result struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// Provider performs one external geocode lookup. A (nil, nil) return means
// "no match"; errors mean the provider itself is unavailable.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, city string) (*Result, error)
}

// Cache stores geocode results keyed by normalized city name. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, r *Result) error
}

// Resolver implements ports.GeoResolver over a provider chain and a cache.
type Resolver struct {
	providers []Provider
	cache     Cache
	logger    zerolog.Logger
}

func NewResolver(cache Cache, logger zerolog.Logger, providers ...Provider) *Resolver {
	return &Resolver{providers: providers, cache: cache, logger: logger}
}

// Resolve normalizes in into a passenger location. Coordinates in the input
// are trusted as-is; otherwise the city is geocoded. Unresolvable inputs
// degrade to fallback (which may be nil). Only infrastructure failures of
// the cache surface as errors; provider failures fall through the chain.
func (r *Resolver) Resolve(ctx context.Context, in ports.LocationInput, fallback *domain.PassengerLocation) (*domain.PassengerLocation, error) {
	if in.Empty() {
		return fallback, nil
	}

	city, country := r.candidates(in)

	if in.Coordinates != nil {
		return &domain.PassengerLocation{
			City:        city,
			Coordinates: *in.Coordinates,
			DisplayName: displayNameFor(city, country, in.DisplayName),
			Country:     country,
		}, nil
	}

	hit, err := r.geocode(ctx, city)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return fallback, nil
	}

	return &domain.PassengerLocation{
		City:        city,
		Coordinates: domain.Coordinates{Lat: hit.Lat, Lng: hit.Lng},
		DisplayName: displayNameFor(city, country, hit.DisplayName),
		Country:     country,
	}, nil
}

// candidates extracts the city and country carried by the input. Free text
// splits on the first comma ("Mombasa, KE"); partial objects fall back to
// the display name's first segment.
func (r *Resolver) candidates(in ports.LocationInput) (city, country string) {
	if in.Text != "" {
		parts := strings.SplitN(in.Text, ",", 2)
		city = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			country = NormalizeCountry(parts[1])
		}
		return city, country
	}

	city = strings.TrimSpace(in.City)
	if city == "" && in.DisplayName != "" {
		city = strings.TrimSpace(strings.SplitN(in.DisplayName, ",", 2)[0])
	}
	if city == "" {
		city = "Unknown"
	}

	if in.Country != "" {
		country = NormalizeCountry(in.Country)
	} else if strings.Contains(in.DisplayName, ",") {
		parts := strings.Split(in.DisplayName, ",")
		country = NormalizeCountry(parts[len(parts)-1])
	}
	return city, country
}

// geocode looks the city up in the cache, then walks the provider chain.
func (r *Resolver) geocode(ctx context.Context, city string) (*Result, error) {
	if city == "" {
		return nil, nil
	}
	key := strings.ToLower(city)

	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn().Err(err).Str("city", city).Msg("geocode cache read failed")
		} else if ok {
			metrics.GeocodeLookupsTotal.WithLabelValues("cache", "hit").Inc()
			return cached, nil
		}
	}

	for _, p := range r.providers {
		hit, err := p.Lookup(ctx, city)
		if err != nil {
			metrics.GeocodeLookupsTotal.WithLabelValues(p.Name(), "miss").Inc()
			r.logger.Warn().Err(err).Str("provider", p.Name()).Str("city", city).Msg("geocode lookup failed, falling back")
			continue
		}
		if hit == nil {
			metrics.GeocodeLookupsTotal.WithLabelValues(p.Name(), "miss").Inc()
			continue
		}
		metrics.GeocodeLookupsTotal.WithLabelValues(p.Name(), "hit").Inc()
		if r.cache != nil {
			if err := r.cache.Set(ctx, key, hit); err != nil {
				r.logger.Warn().Err(err).Str("city", city).Msg("geocode cache write failed")
			}
		}
		return hit, nil
	}
	return nil, nil
}

func displayNameFor(city, country, resolved string) string {
	if country != "" {
		return city + ", " + country
	}
	if resolved != "" {
		return resolved
	}
	return city
}

// NormalizeCountry converts an ISO country code ("KE", "KEN") or country
// name to its full English name. Unrecognized values pass through trimmed.
func NormalizeCountry(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if c := countries.ByName(v); c != countries.Unknown {
		return c.String()
	}
	return v
}
