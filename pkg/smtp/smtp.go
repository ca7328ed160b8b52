package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"

	"LundyVoice/internal/entity"
)

type ItfSmtp interface {
	SendBookingConfirmation(booking entity.DemoBooking) error
}

type sendFunc func(addr string, a smtpPkg.Auth, from string, to []string, msg []byte) error

type smtp struct {
	auth smtpPkg.Auth
	mail string
	addr string
	send sendFunc
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{auth: auth, mail: mail, addr: host + ":587", send: smtpPkg.SendMail}
}

func (s *smtp) SendBookingConfirmation(booking entity.DemoBooking) error {
	if booking.Email == "" {
		return fmt.Errorf("booking %s has no email", booking.ID)
	}

	to := []string{booking.Email}
	if err := s.send(s.addr, s.auth, s.mail, to, bookingMessage(s.mail, booking)); err != nil {
		return fmt.Errorf("send booking confirmation: %w", err)
	}

	return nil
}

func bookingMessage(from string, b entity.DemoBooking) []byte {
	name := b.Name
	if name == "" {
		name = "there"
	}

	when := strings.TrimSpace(strings.Join([]string{b.Date, b.Time}, " "))
	if when == "" {
		when = "a time we will confirm shortly"
	}

	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your Lundy demo is confirmed\r\n\r\n"+
		"Hello %s,\r\n\r\nYour demo is booked for %s. You'll get a calendar invite shortly.\r\n\r\nBooking reference: %s\r\n",
		from, b.Email, name, when, b.ID))
}
