package ports

import "github.com/airrush/charter-api/internal/core/domain"

// ReceiptRenderer produces the air-waybill receipt document for a cargo
// booking. Rendering is pure; the availability gate lives in the service.
type ReceiptRenderer interface {
	Render(c *domain.CargoBooking) ([]byte, error)
}
