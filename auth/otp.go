package auth

import (
	"fmt"
	"math/rand"
	"net/smtp"
	"os"
	"strings"
)

func GenerateOTP(length int) string {
	digits := "0123456789"
	var otp strings.Builder
	for i := 0; i < length; i++ {
		otp.WriteByte(digits[rand.Intn(len(digits))])
	}
	return otp.String()
}

// SendOTPEmail delivers a registration verification code. SMTP settings
// come from the environment; the mail body is plain text.
func SendOTPEmail(toEmail, otp string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASSWORD")
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == "" {
		port = "587"
	}

	msg := []byte(fmt.Sprintf(
		"Subject: Verification code - Provider registration\n\nYour verification code is: %s\nThis code expires in 10 minutes.", otp))

	auth := smtp.PlainAuth("", from, pass, host)
	return smtp.SendMail(host+":"+port, auth, from, []string{toEmail}, msg)
}
