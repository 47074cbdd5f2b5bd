package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/vantech-digital/corsite_api/model"
	"github.com/vantech-digital/corsite_api/shared"
	log "github.com/sirupsen/logrus"
)

// EmailService sends the transactional notification for each contact
// submission to the configured recipient. Delivery is at-least-once: a
// retried request may send the same message twice, which review tolerates.
type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	recipient    string

	templates map[string]*template.Template
	location  *time.Location
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.recipient = os.Getenv("CONTACT_RECIPIENT")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "Corsite"
	}

	// Submission timestamps are rendered in the company's timezone no
	// matter where the process runs.
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		loc = time.FixedZone("+07", 7*60*60)
	}
	svc.location = loc

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	err := svc.loadTemplates()
	if err != nil {
		log.WithError(err).Error("Failed to load email templates")
		return err
	}

	if !svc.Configured() {
		log.Warn("SMTP not configured, contact notifications will fail")
	}

	return nil
}

// Configured reports whether the delivery backend has credentials.
func (svc *EmailService) Configured() bool {
	return svc.smtpHost != "" && svc.recipient != ""
}

func (svc *EmailService) Recipient() string {
	return svc.recipient
}

const contactNotificationHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Message - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1D4ED8; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .message { background-color: #EFF6FF; border-left: 4px solid #1D4ED8; padding: 15px; margin: 20px 0; white-space: pre-wrap; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Message</h1>
        </div>
        <div class="content">
            <div class="details">
                <strong>Name:</strong> {{.Name}}<br>
                <strong>Email:</strong> {{.Email}}<br>
                {{if .Phone}}<strong>Phone:</strong> {{.Phone}}<br>{{end}}
                {{if .Subject}}<strong>Subject:</strong> {{.Subject}}<br>{{end}}
                <strong>Received:</strong> {{.SubmittedAt}}
            </div>
            <div class="message">{{.Message}}</div>
        </div>
        <div class="footer">
            <p>Sent automatically by the {{.AppName}} website.</p>
        </div>
    </div>
</body>
</html>
`

const contactNotificationText = `New contact message - {{.AppName}}

Name: {{.Name}}
Email: {{.Email}}
{{if .Phone}}Phone: {{.Phone}}
{{end}}{{if .Subject}}Subject: {{.Subject}}
{{end}}Received: {{.SubmittedAt}}

{{.Message}}
`

type ContactNotificationData struct {
	AppName     string
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	SubmittedAt string
}

func (svc *EmailService) loadTemplates() error {
	var err error

	svc.templates["contact_html"], err = template.New("contact_html").Parse(contactNotificationHTML)
	if err != nil {
		return fmt.Errorf("failed to parse contact HTML template: %v", err)
	}

	svc.templates["contact_text"], err = template.New("contact_text").Parse(contactNotificationText)
	if err != nil {
		return fmt.Errorf("failed to parse contact text template: %v", err)
	}

	return nil
}

// SendContactNotification formats and delivers the notification email.
// Returns the generated Message-ID on success.
func (svc *EmailService) SendContactNotification(sub *model.ContactSubmission) (string, error) {
	if !svc.Configured() {
		return "", shared.NewDispatchError(nil, "Email delivery is not configured")
	}

	appName := svc.fromName
	data := ContactNotificationData{
		AppName:     appName,
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Subject:     sub.Subject,
		Message:     sub.Message,
		SubmittedAt: time.Now().In(svc.location).Format("02/01/2006 15:04:05 MST"),
	}

	var htmlBody, textBody bytes.Buffer
	if err := svc.templates["contact_html"].Execute(&htmlBody, data); err != nil {
		return "", shared.NewDispatchError(err, "Failed to render notification email")
	}
	if err := svc.templates["contact_text"].Execute(&textBody, data); err != nil {
		return "", shared.NewDispatchError(err, "Failed to render notification email")
	}

	subject := fmt.Sprintf("[%s] New contact message from %s", appName, sub.Name)

	messageID, err := svc.sendMultipart(svc.recipient, subject, textBody.String(), htmlBody.String())
	if err != nil {
		return "", shared.NewDispatchError(err, "Failed to send notification email")
	}

	log.WithFields(log.Fields{"to": svc.recipient, "message_id": messageID}).Info("Contact notification sent")
	return messageID, nil
}

// headerValue neutralizes CR and LF before a string is written into the
// message header block. The subject embeds the submitter's name, so
// without this a crafted name smuggles extra headers into the relay.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// sendMultipart delivers a multipart/alternative message with plain-text
// and HTML bodies over SMTP.
func (svc *EmailService) sendMultipart(to, subject, textBody, htmlBody string) (string, error) {
	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), svc.smtpHost)
	boundary := "corsite-" + uuid.NewString()

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", headerValue(svc.fromName), headerValue(svc.fromEmail))
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&msg, "Subject: %s\r\n", headerValue(subject))
	fmt.Fprintf(&msg, "Message-ID: %s\r\n", messageID)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n", textBody)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	err := smtp.SendMail(
		svc.smtpHost+":"+svc.smtpPort,
		auth,
		svc.fromEmail,
		[]string{to},
		msg.Bytes(),
	)

	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return "", fmt.Errorf("failed to send email: %v", err)
	}

	return messageID, nil
}
