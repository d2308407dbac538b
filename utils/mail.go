package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
	"time"

	"github.com/Kariqs/netshop-api/models"
)

type EmailData struct {
	Name       string
	Message    string
	OrderID    uint
	Status     string
	BuyingType string
	OrderDate  string
	Total      string
}

type Mailer struct {
	From        string
	Password    string
	SMTPHost    string
	SMTPAddress string
	TemplateDir string
}

func (m Mailer) Enabled() bool {
	return m.From != "" && m.SMTPAddress != ""
}

func RenderEmail(templatePath string, data EmailData) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (m Mailer) SendEmail(emailTo string, emailSubject string, data EmailData, templateName string) error {
	body, err := RenderEmail(filepath.Join(m.TemplateDir, templateName), data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.From, m.Password, m.SMTPHost)
	if err := smtp.SendMail(m.SMTPAddress, auth, m.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NotifyOrderPlaced sends the order confirmation. It is a no-op when SMTP is
// not configured.
func (m Mailer) NotifyOrderPlaced(_ context.Context, user models.User, order models.Order, cart models.Cart) error {
	if !m.Enabled() {
		return nil
	}
	data := EmailData{
		Name:       order.FirstName,
		Message:    "Thank you for your order! We will contact you when it is ready.",
		OrderID:    order.ID,
		Status:     string(order.Status),
		BuyingType: string(order.BuyingType),
		OrderDate:  time.Time(order.OrderDate).Format("2006-01-02"),
		Total:      cart.FinalPrice.StringFixed(2),
	}
	return m.SendEmail(user.Email, fmt.Sprintf("Order #%d received", order.ID), data, "order_confirmation.html")
}
