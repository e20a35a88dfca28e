package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"gopkg.in/gomail.v2"
)

const summarySubject = "BookStore Order Summary"

const summaryTemplate = `<html>
<body>
  <h2>BookStore Order Summary</h2>
  <p>Hi {{.Name}},</p>
  <p>Thank you for your order. Your total comes to <b>{{printf "%.2f" .Total}}</b>.</p>
  <p>Happy reading!</p>
</body>
</html>`

// Notifier renders and delivers order-summary mails.
type Notifier interface {
	SendOrderSummary(email, firstName string, total float64) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MailNotifier struct {
	cfg  SMTPConfig
	tmpl *template.Template
}

func NewMailNotifier(cfg SMTPConfig) (*MailNotifier, error) {
	tmpl, err := template.New("order-summary").Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse order summary template: %w", err)
	}
	return &MailNotifier{cfg: cfg, tmpl: tmpl}, nil
}

// SendOrderSummary renders the summary and delivers it over SMTP. With no
// SMTP host configured the mail is rendered but not sent, so local setups
// work without a mail server.
func (n *MailNotifier) SendOrderSummary(email, firstName string, total float64) error {
	body, err := n.render(firstName, total)
	if err != nil {
		return err
	}

	if n.cfg.Host == "" {
		log.Printf("mail delivery disabled, skipping summary for %s", email)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", summarySubject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send order summary mail: %w", err)
	}
	return nil
}

func (n *MailNotifier) render(firstName string, total float64) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Name  string
		Total float64
	}{Name: firstName, Total: total}
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render order summary: %w", err)
	}
	return buf.String(), nil
}
