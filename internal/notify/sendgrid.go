package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridNotifier mails each inquiry to the shop inbox. Replies go
// straight to the customer.
type SendGridNotifier struct {
	apiKey string
	host   string
	from   string
	to     string
}

// SendGridOption customizes a SendGridNotifier.
type SendGridOption func(*SendGridNotifier)

// WithSendGridHost points the notifier at another API host.
func WithSendGridHost(host string) SendGridOption {
	return func(n *SendGridNotifier) { n.host = host }
}

func NewSendGridNotifier(apiKey, from, to string, opts ...SendGridOption) (*SendGridNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if from == "" {
		return nil, errors.New("from address is empty")
	}
	if to == "" {
		return nil, errors.New("to address is empty")
	}
	n := &SendGridNotifier{apiKey: apiKey, host: sendGridHost, from: from, to: to}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *SendGridNotifier) NotifyContact(ctx context.Context, s *domain.ContactSubmission) error {
	message := n.message(s)

	request := sendgrid.GetRequest(n.apiKey, sendGridEndpoint, n.host)
	request.Method = "POST"
	client := &sendgrid.Client{Request: request}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[sendgrid] contact %s mailed: status=%d", s.ID, response.StatusCode)
	return nil
}

func (n *SendGridNotifier) message(s *domain.ContactSubmission) *mail.SGMailV3 {
	body := contactSummary(s)
	m := mail.NewSingleEmail(
		mail.NewEmail("DHNaturally", n.from),
		fmt.Sprintf("[Contact] %s", s.Subject),
		mail.NewEmail("", n.to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)
	m.SetReplyTo(mail.NewEmail(s.FirstName+" "+s.LastName, s.Email))
	return m
}
