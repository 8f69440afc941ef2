package receipt_service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/repository"
)

// Service renders booking receipts as PDF, with a QR code that encodes the
// booking summary for pickup verification.
type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// GenerateReceipt builds the PDF receipt for one booking and returns the
// bytes plus a download filename.
func (s *Service) GenerateReceipt(ctx context.Context, bookingID int64) ([]byte, string, error) {
	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	userName := "-"
	if user, err := s.store.Users.GetByID(ctx, b.UserID); err == nil {
		userName = user.FullName
	}

	vehicleName := b.VehicleType
	if vehicle, err := s.store.Vehicles.GetByID(ctx, b.VehicleType, b.VehicleID); err == nil {
		vehicleName = vehicle.Name
	}

	logger.InfoLogger.Infof("Generating receipt PDF for booking %d", b.ID)
	return buildReceiptPDF(b, userName, vehicleName)
}

func buildReceiptPDF(b *booking_models.Booking, userName, vehicleName string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RENTHUB BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No     : RH-%d", b.ID),
		fmt.Sprintf("Customer       : %s", safe(userName)),
		fmt.Sprintf("Vehicle        : %s (%s)", safe(vehicleName), b.VehicleType),
		fmt.Sprintf("Date           : %s", b.StartDate),
		fmt.Sprintf("Time           : %s for %d hours", b.StartTime, b.Duration),
		fmt.Sprintf("Status         : %s", b.Status),
		fmt.Sprintf("Transaction ID : %s", safe(b.TransactionID)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Total Amount     : Rs %.2f", b.TotalAmount))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Advance Paid     : Rs %.2f", b.AdvancePayment))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Due at Pickup    : Rs %.2f", b.RemainingAmount))
	pdf.Ln(10)

	if png, err := receiptQR(b); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("receipt-qr", 15, pdf.GetY(), 40, 40, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + 44)
	} else {
		logger.ErrorLogger.Errorf("QR code generation failed for booking %d: %v", b.ID, err)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this receipt and the QR code at pickup. The remaining balance is payable at pickup.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", b.ID, safeFilenamePart(userName))
	return buf.Bytes(), filename, nil
}

// receiptQR encodes the booking summary for pickup-desk scanning.
func receiptQR(b *booking_models.Booking) ([]byte, error) {
	content := fmt.Sprintf("RentHub Booking #%d | %s %d | %s %s | %dh | txn %s",
		b.ID, b.VehicleType, b.VehicleID, b.StartDate, b.StartTime, b.Duration, b.TransactionID)
	return qrcode.Encode(content, qrcode.Medium, 256)
}

func safe(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
