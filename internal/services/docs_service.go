package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/store"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the admin passenger manifest PDF for a route and
// travel date.
type DocsService struct {
	Store store.Store
}

func NewDocsService(st store.Store) *DocsService {
	return &DocsService{Store: st}
}

func (s *DocsService) GenerateManifest(routeID, travelDate string) ([]byte, string, error) {
	route, err := s.Store.GetRoute(routeID)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(travelDate) == "" {
		return nil, "", domain.ValidationError{Field: "date", Msg: "required"}
	}

	bookings, err := s.Store.ListBookings()
	if err != nil {
		return nil, "", err
	}

	rows := []manifestRow{}
	for _, b := range bookings {
		if b.RouteID != routeID || b.TravelDate != travelDate || b.Status == models.BookingCancelled {
			continue
		}
		row := manifestRow{collegeID: "-", name: "-", phone: "-"}
		if student, err := s.Store.GetStudent(b.StudentID); err == nil {
			row.collegeID = student.CollegeID
			row.name = safe(student.Name, "-")
			row.phone = safe(student.Phone, "-")
		}
		rows = append(rows, row)
	}

	return buildManifestPDF(route, travelDate, rows)
}

type manifestRow struct {
	collegeID string
	name      string
	phone     string
}

func buildManifestPDF(route models.BusRoute, travelDate string, rows []manifestRow) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Passenger Manifest", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PASSENGER MANIFEST")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Bus        : %s", route.BusNumber),
		fmt.Sprintf("Route      : %s -> %s", route.Origin, route.Destination),
		fmt.Sprintf("Departure  : %s", safe(route.DepartureTime, "-")),
		fmt.Sprintf("Travel date: %s", travelDate),
		fmt.Sprintf("Generated  : %s", time.Now().Format("2006-01-02 15:04")),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "College ID", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, "Phone", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, row := range rows {
		pdf.CellFormat(12, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, row.collegeID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 8, row.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, row.phone, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Total passengers: %d of %d seats.", len(rows), route.TotalSeats), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("MANIFEST_%s_%s.pdf", safeFilenamePart(route.BusNumber), safeFilenamePart(travelDate))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
