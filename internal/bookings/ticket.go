package bookings

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// RenderTicket draws a one-page A4 e-ticket for a booking
func RenderTicket(rec BookingRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+rec.PNR, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	t := rec.TrainDetails
	for _, line := range []string{
		"PNR          : " + rec.PNR,
		"Status       : " + rec.Status.String(),
		fmt.Sprintf("Train        : %s (%s)", t.TrainName, t.TrainID),
		fmt.Sprintf("Journey      : %s -> %s", t.From, t.To),
		"Date         : " + t.Date,
		fmt.Sprintf("Departure    : %s   Arrival: %s   Duration: %s", t.Departure, t.Arrival, t.Duration),
		"Booked on    : " + rec.BookingDate.Format("02 Jan 2006 15:04 MST"),
	} {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(18, 8, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Mobile", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Berth", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range rec.Passengers {
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 7, p.FirstName+" "+p.LastName, "1", 0, "", false, 0, "")
		pdf.CellFormat(18, 7, fmt.Sprintf("%d", p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, p.Mobile, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, string(p.Berth), "1", 1, "", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total Amount: Rs. %d", rec.TotalAmount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo identity card during the journey.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
