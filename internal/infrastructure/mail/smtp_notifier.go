// Package mail sends shop notifications over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	appcontent "github.com/shop/storefront/internal/application/content"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SendFunc delivers composed messages
type SendFunc func(msgs ...*gomail.Message) error

// SMTPNotifier emails the shop admin when a contact message arrives
type SMTPNotifier struct {
	from   string
	to     string
	send   SendFunc
	logger *zap.Logger
}

// NewSMTPNotifier creates a notifier that dials cfg.Host for every message
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewSMTPNotifierWithSender(cfg, dialer.DialAndSend, logger)
}

// NewSMTPNotifierWithSender creates a notifier with a custom delivery function
func NewSMTPNotifierWithSender(cfg config.MailConfig, send SendFunc, logger *zap.Logger) (*SMTPNotifier, error) {
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}
	if cfg.AdminTo == "" {
		return nil, errors.New("mail admin recipient is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPNotifier{from: cfg.From, to: cfg.AdminTo, send: send, logger: logger}, nil
}

// ContactReceived sends the message to the admin with Reply-To set to the visitor
func (n *SMTPNotifier) ContactReceived(ctx context.Context, c *content.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to)
	msg.SetAddressHeader("Reply-To", c.Email, c.Name)
	msg.SetHeader("Subject", "[Contact] "+singleLine(c.Subject))
	msg.SetBody("text/plain", contactText(c))
	msg.AddAlternative("text/html", contactHTML(c))

	if err := n.send(msg); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	n.logger.Info("contact notification sent",
		zap.String("contact_id", c.ID.String()),
		zap.String("to", n.to),
	)
	return nil
}

func contactText(c *content.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", c.Name, c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	}
	fmt.Fprintf(&b, "Subject: %s\n\n%s\n", c.Subject, c.Message)
	return b.String()
}

func contactHTML(c *content.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(c.Name), html.EscapeString(c.Email))
	if c.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(c.Phone))
	}
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(c.Subject))
	b.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>") + "</p>")
	return b.String()
}

// singleLine keeps header values on one line
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ appcontent.ContactNotifier = (*SMTPNotifier)(nil)
