// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Mailer sends a single HTML email through a third-party mail API.
type Mailer interface {
	Send(toEmail, subject, htmlContent string) error
}

type postmarkMailer struct {
	client *postmark.Client
}

func (m *postmarkMailer) Send(toEmail, subject, htmlContent string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type sendgridMailer struct {
	apiKey string
}

func (m *sendgridMailer) Send(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("EnySkin", os.Getenv("EMAIL_SENDER"))
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)
	response, err := sendgrid.NewSendClient(m.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid returned %d", response.StatusCode)
	}
	return nil
}

// EmailService sends transactional emails. The provider is selected with
// MAIL_PROVIDER ("postmark" or "sendgrid").
type EmailService struct {
	mailer Mailer
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	switch strings.ToLower(os.Getenv("MAIL_PROVIDER")) {
	case "sendgrid":
		apiKey := os.Getenv("SENDGRID_API_KEY")
		if apiKey == "" {
			logrus.Fatal("SENDGRID_API_KEY is not set in environment variables")
		}
		return &EmailService{mailer: &sendgridMailer{apiKey: apiKey}}
	default:
		apiToken := os.Getenv("POSTMARK_API_TOKEN")
		if apiToken == "" {
			logrus.Fatal("POSTMARK_API_TOKEN is not set in environment variables")
		}
		return &EmailService{mailer: &postmarkMailer{client: postmark.NewClient(apiToken, "")}}
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.mailer == nil {
		return fmt.Errorf("no mail provider configured")
	}
	return es.mailer.Send(toEmail, subject, htmlContent)
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/verify?token=%s", os.Getenv("PUBLIC_BASE_URL"), token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// OrderEmailItem is one row of the order table in notification emails.
type OrderEmailItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ShippingFee float64 `json:"shipping_fee"`
}

// OrderNotification carries everything needed to email order details to
// the shop operator and the customer.
type OrderNotification struct {
	ToEmail      string           `json:"to_email"`
	FromName     string           `json:"from_name"`
	FromEmail    string           `json:"from_email"`
	Address      string           `json:"address"`
	OrderDetails []OrderEmailItem `json:"order_details"`
	Total        float64          `json:"total"`
	Subtotal     float64          `json:"subtotal"`
	ShippingFee  float64          `json:"shipping_fee"`
	Notes        string           `json:"notes"`
}

const tdStyle = `style="padding: 8px; border: 1px solid #ddd;"`

// OrderItemsTable renders the order lines and total as an HTML table shared
// by both notification emails.
func OrderItemsTable(n OrderNotification) string {
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	b.WriteString(fmt.Sprintf("<tr><th %[1]s>Product</th><th %[1]s>Quantity</th><th %[1]s>Price</th><th %[1]s>Total</th></tr>", tdStyle))
	for _, item := range n.OrderDetails {
		b.WriteString(fmt.Sprintf("<tr><td %[1]s>%[2]s</td><td %[1]s>%[3]d</td><td %[1]s>$%.2[4]f</td><td %[1]s>$%.2[5]f</td></tr>",
			tdStyle, item.ProductName, item.Quantity, item.Price, item.Price*float64(item.Quantity)))
	}
	b.WriteString(fmt.Sprintf(`<tr><td colspan="3" %[1]s><strong>Total:</strong></td><td %[1]s>$%.2[2]f</td></tr>`, tdStyle, n.Total))
	b.WriteString("</table>")
	return b.String()
}

// SendOrderEmails sends the order notification to the shop operator and a
// confirmation to the customer. Callers treat a failure as non-fatal.
func (es *EmailService) SendOrderEmails(n OrderNotification) error {
	notes := n.Notes
	if notes == "" {
		notes = "No additional notes"
	}
	table := OrderItemsTable(n)

	operatorBody := fmt.Sprintf(
		"<h1>New Order Received</h1>"+
			"<p><strong>Customer:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Shipping Address:</strong> %s</p>"+
			"<h2>Order Details</h2>%s"+
			"<h3>Additional Notes</h3><p>%s</p>",
		n.FromName, n.FromEmail, n.Address, table, notes,
	)
	if err := es.SendEmail(n.ToEmail, "New Order Notification", operatorBody); err != nil {
		return err
	}

	customerBody := fmt.Sprintf(
		"<h1>Thank You for Your Order!</h1>"+
			"<p>Dear %s,</p>"+
			"<p>We have received your order and are processing it now. You will receive another email when your order ships.</p>"+
			"<h2>Order Summary</h2>%s"+
			"<p><strong>Shipping Address:</strong> %s</p>"+
			"<p>Thank you for shopping with EnySkin!</p>",
		n.FromName, table, n.Address,
	)
	return es.SendEmail(n.FromEmail, "Your Order Confirmation", customerBody)
}
