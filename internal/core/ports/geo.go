package ports

import (
	"context"

	"github.com/airrush/charter-api/internal/core/domain"
)

// LocationInput is the loose location shape accepted on the passenger API:
// free text ("Mombasa" or "Mombasa, KE"), a partial object, or an object
// already carrying trusted coordinates. Exactly one resolver interprets it;
// call sites never guess.
type LocationInput struct {
	// Text is the free-text form, optionally "City, CountryCode".
	Text string
	// City/Country/DisplayName are the partial-object form.
	City        string
	Country     string
	DisplayName string
	// Coordinates, when present, are trusted as-is and skip the lookup.
	Coordinates *domain.Coordinates
}

// Empty reports whether the input carries nothing resolvable.
func (in LocationInput) Empty() bool {
	return in.Text == "" && in.City == "" && in.DisplayName == "" && in.Coordinates == nil
}

// GeoResolver normalizes a LocationInput into a stored location.
// Resolution failures degrade to fallback (which may be nil) rather than
// erroring; only infrastructure problems surface as errors.
type GeoResolver interface {
	Resolve(ctx context.Context, in LocationInput, fallback *domain.PassengerLocation) (*domain.PassengerLocation, error)
}
