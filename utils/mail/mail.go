package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/renthub/renthub/config"
	"github.com/renthub/renthub/logger"
)

// Email template paths inside the embedded FS.
const (
	bookingConfirmationTemplate = "templates/email/booking_confirmation.html"
	refundCompleteTemplate      = "templates/email/refund_complete.html"
	passwordResetOTPTemplate    = "templates/email/password_reset_otp.html"
	sosLinkTemplate             = "templates/email/sos_link.html"
	sosAlertTemplate            = "templates/email/sos_alert.html"
)

var emailTemplates embed.FS

func init() {
	config.LoadEnv()
}

// InitTemplates hands the embedded email templates to this package. Called
// once from main.
func InitTemplates(fs embed.FS) {
	emailTemplates = fs
}

// sendEmail renders a template and delivers it over SMTP.
func sendEmail(toEmail, subject, templatePath string, data interface{}) error {
	t, err := template.ParseFS(emailTemplates, templatePath)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", os.Getenv("FROM_EMAIL"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body.String())

	port, err := strconv.Atoi(config.GetEnv("SMTP_PORT", "465"))
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid SMTP port: %v", err)
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	smtpHost := os.Getenv("SMTP_HOST")
	dialer := gomail.NewDialer(smtpHost, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	dialer.TLSConfig = &tls.Config{ServerName: smtpHost}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Email sent to %s (%s)", toEmail, subject)
	return nil
}

// BookingDetails is the data rendered into confirmation emails and handed to
// the voice agent.
type BookingDetails struct {
	BookingID        int64
	VehicleName      string
	VehicleType      string
	StartDate        string
	StartTime        string
	Duration         int
	TotalAmount      float64
	AdvancePayment   float64
	RemainingAmount  float64
	ConfirmationTime string
}

// SendBookingConfirmation tells a user their booking was confirmed.
func SendBookingConfirmation(toEmail, userName string, details BookingDetails) error {
	logger.InfoLogger.Infof("Sending booking confirmation email to %s", toEmail)
	data := struct {
		UserName string
		BookingDetails
		Year int
	}{userName, details, time.Now().Year()}
	return sendEmail(toEmail, "Your Booking is Confirmed! - RentHub", bookingConfirmationTemplate, data)
}

// SendRefundComplete tells a user their refund was credited.
func SendRefundComplete(toEmail, userName string, bookingID int64, amount float64, refundTime string) error {
	logger.InfoLogger.Infof("Sending refund completion email to %s", toEmail)
	data := struct {
		UserName   string
		BookingID  int64
		Amount     float64
		RefundTime string
		Year       int
	}{userName, bookingID, amount, refundTime, time.Now().Year()}
	return sendEmail(toEmail, "Your RentHub Refund is Complete", refundCompleteTemplate, data)
}

// SendPasswordResetOTP delivers a 6-digit password reset code.
func SendPasswordResetOTP(toEmail, userName, otp string) error {
	logger.InfoLogger.Infof("Sending password reset OTP to %s", toEmail)
	data := struct {
		UserName string
		OTP      string
		Year     int
	}{userName, otp, time.Now().Year()}
	return sendEmail(toEmail, "Your RentHub OTP Code", passwordResetOTPTemplate, data)
}

// SendSOSLink delivers an SOS activation link for a confirmed booking.
func SendSOSLink(toEmail, userName, sosLink string) error {
	logger.InfoLogger.Infof("Sending SOS activation link to %s", toEmail)
	data := struct {
		UserName string
		SOSLink  string
	}{userName, sosLink}
	return sendEmail(toEmail, "SOS Activation for Your Ride", sosLinkTemplate, data)
}

// SOSAlert is the data for an admin safety alert.
type SOSAlert struct {
	UserName        string
	BookingID       int64
	GoogleMapsLink  string
	PhoneNumber     string
	TriggeredAtTime string
}

// SendSOSAlert warns the admin address that a rider triggered SOS.
func SendSOSAlert(adminEmail string, alert SOSAlert) error {
	logger.InfoLogger.Infof("Sending SOS alert email to %s for booking %d", adminEmail, alert.BookingID)
	return sendEmail(adminEmail, "URGENT: SOS Alert from User", sosAlertTemplate, alert)
}
