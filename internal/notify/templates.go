package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/airrush/charter-api/internal/core/domain"
)

// Timestamps are rendered in the operator's timezone, matching what the
// tracking pages show.
var nairobi = mustLoadNairobi()

func mustLoadNairobi() *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		return time.UTC
	}
	return loc
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "Not set"
	}
	return t.In(nairobi).Format("Mon, Jan 2, 2006, 03:04 PM")
}

var wrapTmpl = template.Must(template.New("wrap").Parse(`
  <div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;
              padding:20px;border:1px solid #ddd;border-radius:8px;background:#f9f9f9;">
    <h2 style="color:#1d3557;">{{.Title}}</h2>
    {{.Body}}
    <hr style="margin:20px 0;">
    <p style="font-size:12px;color:#555;">
      This is an automated message from <strong>{{.Footer}}</strong>. Please do not reply.
    </p>
  </div>`))

func wrap(title string, body template.HTML, footer string) (string, error) {
	var buf bytes.Buffer
	err := wrapTmpl.Execute(&buf, struct {
		Title  string
		Body   template.HTML
		Footer string
	}{title, body, footer})
	return buf.String(), err
}

var passengerBodies = map[domain.PassengerStatus]*template.Template{
	domain.PassengerBooked: template.Must(template.New("booked").Parse(`
        <p>Hello <strong>{{.CustomerName}}</strong>,</p>
        <p>Your flight booking <b>{{.Airwaybill}}</b> has been confirmed.</p>
        <p>We look forward to flying with you!</p>`)),
	domain.PassengerCheckedIn: template.Must(template.New("checkedin").Parse(`
        <p>Hello <strong>{{.CustomerName}}</strong>,</p>
        <p>You are now checked in for booking <b>{{.Airwaybill}}</b>.</p>`)),
	domain.PassengerInTransit: template.Must(template.New("intransit").Parse(`
        <p>Hello <strong>{{.CustomerName}}</strong>,</p>
        <p>Your flight <b>{{.Airwaybill}}</b> is currently in transit.</p>`)),
	domain.PassengerArrived: template.Must(template.New("arrived").Parse(`
        <p>Hello <strong>{{.CustomerName}}</strong>,</p>
        <p>Your flight <b>{{.Airwaybill}}</b> has arrived at
        <strong>{{.DestinationCity}}</strong>.</p>`)),
	domain.PassengerCancelled: template.Must(template.New("cancelled").Parse(`
        <p>Hello <strong>{{.CustomerName}}</strong>,</p>
        <p>Unfortunately, your booking <b>{{.Airwaybill}}</b> has been cancelled.</p>`)),
}

var passengerSubjects = map[domain.PassengerStatus]string{
	domain.PassengerBooked:    "Flight Booking Confirmed",
	domain.PassengerCheckedIn: "Check-In Complete",
	domain.PassengerInTransit: "Flight In Transit",
	domain.PassengerArrived:   "Flight Arrived",
	domain.PassengerCancelled: "Flight Cancelled",
}

// renderPassenger builds the subject and HTML body for a passenger status
// e-mail. ok is false for statuses with no mapped template.
func renderPassenger(p *domain.PassengerBooking) (subject, body string, ok bool, err error) {
	tmpl, found := passengerBodies[p.Status]
	if !found {
		return "", "", false, nil
	}
	subject = passengerSubjects[p.Status]

	destCity := p.Destination.City
	if destCity == "" {
		destCity = "your destination"
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		CustomerName    string
		Airwaybill      string
		DestinationCity string
	}{p.CustomerName, p.Airwaybill, destCity}); err != nil {
		return "", "", false, err
	}

	html, err := wrap(subject, template.HTML(buf.String()), "Passenger Charters")
	if err != nil {
		return "", "", false, err
	}
	return subject, html, true, nil
}

var cargoBody = template.Must(template.New("cargo").Parse(`
    <p>Hello <strong>{{.CustomerName}}</strong>,</p>
    <p>Your cargo with airwaybill <b>{{.Airwaybill}}</b> has been updated.</p>

    <h3>Status: {{.Status}}</h3>
    <p><b>Current Location:</b> {{.CurrentCity}}, {{.CurrentCountry}}</p>

    <h4>Shipment Details</h4>
    <ul>
      <li><b>Origin:</b> {{.OriginCity}}, {{.OriginCountry}}</li>
      <li><b>Destination:</b> {{.DestCity}}, {{.DestCountry}}</li>
      <li><b>Departure Date:</b> {{.Departure}}</li>
      <li><b>Expected Arrival:</b> {{.Arrival}}</li>
      <li><b>Price:</b> ${{.Price}}</li>
    </ul>

    <p><b>What's next?</b></p>
    <p>{{.StatusMessage}}</p>`))

func cargoStatusMessage(status domain.CargoStatus) string {
	switch status {
	case domain.CargoBooked:
		return "Your cargo is booked and awaiting departure."
	case domain.CargoInTransit:
		return "Your cargo is on the way."
	case domain.CargoArrived:
		return "Your cargo has arrived at the destination. Please arrange for collection."
	case domain.CargoWithdrawn:
		return "Your cargo has been collected successfully."
	default:
		return "Your cargo status has been updated."
	}
}

// renderCargo builds the subject and HTML body for a cargo status e-mail.
// Every cargo status maps to the same dynamic template.
func renderCargo(c *domain.CargoBooking) (subject, body string, err error) {
	subject = fmt.Sprintf("Cargo Update: %s (Airwaybill %s)", c.Status, c.Airwaybill)

	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	price := "N/A"
	if c.Price > 0 {
		price = fmt.Sprintf("%.2f", c.Price)
	}

	var buf bytes.Buffer
	if err := cargoBody.Execute(&buf, struct {
		CustomerName   string
		Airwaybill     string
		Status         domain.CargoStatus
		CurrentCity    string
		CurrentCountry string
		OriginCity     string
		OriginCountry  string
		DestCity       string
		DestCountry    string
		Departure      string
		Arrival        string
		Price          string
		StatusMessage  string
	}{
		CustomerName:   c.CustomerName,
		Airwaybill:     c.Airwaybill,
		Status:         c.Status,
		CurrentCity:    orDash(c.CurrentLocation.City),
		CurrentCountry: orDash(c.CurrentLocation.Country),
		OriginCity:     c.Origin.City,
		OriginCountry:  c.Origin.Country,
		DestCity:       c.Destination.City,
		DestCountry:    c.Destination.Country,
		Departure:      formatDate(c.DepartureDate),
		Arrival:        formatDate(c.ArrivalDate),
		Price:          price,
		StatusMessage:  cargoStatusMessage(c.Status),
	}); err != nil {
		return "", "", err
	}

	html, err := wrap("Cargo Shipment Update", template.HTML(buf.String()), "Cargo Charters")
	if err != nil {
		return "", "", err
	}
	return subject, html, nil
}
