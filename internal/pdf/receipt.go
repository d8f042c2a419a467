// Package pdf renders cargo air-waybill receipts.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/airrush/charter-api/internal/core/domain"
)

const (
	companyName = "AIRRUSH CHARTERS LTD"
	companyAddr = "JKIA Cargo Terminal, Nairobi, Kenya"
)

// Receipt implements ports.ReceiptRenderer with an A4 air-waybill layout.
type Receipt struct{}

func NewReceipt() *Receipt { return &Receipt{} }

func (r *Receipt) Render(c *domain.CargoBooking) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Air Waybill %s", c.Airwaybill), false)
	doc.AddPage()

	r.watermark(doc, c.Status)
	r.header(doc, c)
	r.parties(doc, c)
	r.cargoTable(doc, c)
	r.charges(doc, c)
	r.statusBlock(doc, c)
	r.footer(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// watermark stamps the page diagonally with the lifecycle status. Withdrawn
// receipts read as collected proof, everything else as a tracking copy.
func (r *Receipt) watermark(doc *fpdf.Fpdf, status domain.CargoStatus) {
	text := "TRACKING COPY"
	red, green, blue := 180, 180, 180
	if status == domain.CargoWithdrawn {
		text = "COLLECTED"
		red, green, blue = 46, 125, 50
	}

	doc.SetFont("Helvetica", "B", 60)
	doc.SetTextColor(red, green, blue)
	doc.SetAlpha(0.15, "Normal")
	doc.TransformBegin()
	doc.TransformRotate(45, 105, 160)
	doc.Text(30, 170, text)
	doc.TransformEnd()
	doc.SetAlpha(1.0, "Normal")
	doc.SetTextColor(0, 0, 0)
}

func (r *Receipt) header(doc *fpdf.Fpdf, c *domain.CargoBooking) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "AIR WAYBILL", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 6, companyName, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, companyAddr, "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(29, 53, 87)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(0, 8, fmt.Sprintf("  Airwaybill: %s", c.Airwaybill), "", 1, "L", true, 0, "")
	doc.SetTextColor(0, 0, 0)

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, fmt.Sprintf("Routing: %s  ->  %s",
		placeLine(c.Origin), placeLine(c.Destination)), "", 1, "L", false, 0, "")
	doc.Ln(2)
}

func (r *Receipt) parties(doc *fpdf.Fpdf, c *domain.CargoBooking) {
	left := doc.GetX()
	top := doc.GetY()
	boxW := 92.0

	doc.SetFont("Helvetica", "B", 9)
	doc.SetXY(left, top)
	doc.CellFormat(boxW, 6, "SHIPPER", "1", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.MultiCell(boxW, 5, fmt.Sprintf("%s\n%s\n%s, %s",
		c.CustomerName, c.CustomerEmail, c.Origin.City, c.Origin.Country), "1", "L", false)

	doc.SetXY(left+boxW+6, top)
	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(boxW, 6, "CONSIGNEE / DESTINATION", "1", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetX(left + boxW + 6)
	doc.MultiCell(boxW, 5, fmt.Sprintf("%s\n%s, %s\nExpected: %s",
		c.CustomerName, c.Destination.City, c.Destination.Country,
		formatDate(c.ArrivalDate)), "1", "L", false)

	doc.Ln(4)
}

func (r *Receipt) cargoTable(doc *fpdf.Fpdf, c *domain.CargoBooking) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	widths := []float64{70, 25, 20, 35, 40}
	headers := []string{"Description", "Weight (kg)", "Pieces", "Dimensions (m)", "Volume (m3)"}
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	d := c.CargoDetails
	dims := "-"
	if d.Length > 0 && d.Width > 0 && d.Height > 0 {
		dims = fmt.Sprintf("%.2f x %.2f x %.2f", d.Length, d.Width, d.Height)
	}
	volume := "-"
	if d.Volume > 0 {
		volume = fmt.Sprintf("%.3f", d.Volume)
	}

	doc.SetFont("Helvetica", "", 9)
	row := []string{
		orDash(d.Description),
		fmt.Sprintf("%.2f", d.Weight),
		fmt.Sprintf("%d", d.Quantity),
		dims,
		volume,
	}
	for i, v := range row {
		doc.CellFormat(widths[i], 7, v, "1", 0, "C", false, 0, "")
	}
	doc.Ln(10)
}

func (r *Receipt) charges(doc *fpdf.Fpdf, c *domain.CargoBooking) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 6, "CHARGES", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)

	price := "N/A"
	if c.Price > 0 {
		price = fmt.Sprintf("USD %.2f", c.Price)
	}
	doc.CellFormat(95, 6, "Freight charges (prepaid)", "1", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, price, "1", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (r *Receipt) statusBlock(doc *fpdf.Fpdf, c *domain.CargoBooking) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 6, "SHIPMENT STATUS", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)

	lines := [][2]string{
		{"Status", string(c.Status)},
		{"Current location", placeLine(c.CurrentLocation)},
		{"Departure", formatDate(c.DepartureDate)},
		{"Arrival", formatDate(c.ArrivalDate)},
	}
	if c.Status == domain.CargoDelayed {
		lines = append(lines, [2]string{"Delayed since", formatDate(c.DelayedAt)})
		lines = append(lines, [2]string{"Delay reason", orDash(c.DelayReason)})
	}
	if c.WithdrawnAt != nil {
		lines = append(lines, [2]string{"Collected on", formatDate(c.WithdrawnAt)})
		if c.WithdrawReason != "" {
			lines = append(lines, [2]string{"Collection note", c.WithdrawReason})
		}
	}
	for _, l := range lines {
		doc.CellFormat(50, 6, l[0], "1", 0, "L", false, 0, "")
		doc.CellFormat(140, 6, l[1], "1", 1, "L", false, 0, "")
	}
	doc.Ln(6)
}

func (r *Receipt) footer(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(100, 100, 100)
	doc.MultiCell(0, 4,
		"This document is evidence of the contract of carriage. "+
			"Generated electronically by "+companyName+"; no signature required.",
		"", "C", false)
	doc.SetTextColor(0, 0, 0)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "Not set"
	}
	return t.Format("Jan 2, 2006 15:04")
}

func placeLine(l domain.CargoLocation) string {
	if l.City == "" && l.Country == "" {
		return "-"
	}
	return fmt.Sprintf("%s, %s", orDash(l.City), orDash(l.Country))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
