package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/uniclub/uniclub-api/internal/config"
	"github.com/uniclub/uniclub-api/internal/domain"
)

// OrderSummary is the payload rendered into the confirmation email.
type OrderSummary struct {
	Reference     string
	RecipientName string
	Lines         []domain.OrderLine
	Total         string
}

// Mailer sends order confirmations over SMTP. Credentials are injected
// through config; when no host or username is configured the mailer is
// disabled and sends become logged no-ops.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewMailer(conf *config.SMTPConfig) *Mailer {
	timeout := time.Duration(conf.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if conf.Host == "" || conf.Username == "" {
		zap.L().Info("SMTP not configured, order confirmation emails disabled")

		return &Mailer{
			dialer:  nil,
			from:    conf.From,
			timeout: timeout,
		}
	}

	return &Mailer{
		dialer:  gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
		from:    conf.From,
		timeout: timeout,
	}
}

// SendOrderConfirmation delivers the confirmation email, bounded by the
// configured timeout so a hung SMTP connection cannot stall the caller.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, recipient string, summary OrderSummary) error {
	if m.dialer == nil {
		zap.L().Info("order confirmation email skipped",
			zap.String("recipient", recipient),
			zap.String("reference", summary.Reference))

		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", fmt.Sprintf("Order confirmation %v", summary.Reference))
	msg.SetBody("text/html", renderOrderBody(summary))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("dialer.DialAndSend -> %w", err)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending order confirmation: %w", ctx.Err())
	}
}

func renderOrderBody(summary OrderSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Thank you for your order, %v!</h2>", summary.RecipientName)
	fmt.Fprintf(&b, "<p>Order reference: <strong>%v</strong></p>", summary.Reference)
	b.WriteString("<ul>")
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "<li>%v &times; %v @ %v = %v</li>",
			line.Quantity, line.Name, line.UnitPrice.StringFixed(2), line.LineTotal.StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Total: <strong>%v</strong></p>", summary.Total)

	return b.String()
}
