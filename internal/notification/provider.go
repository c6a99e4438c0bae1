package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	errors "github.com/frahmantamala/association-management/internal"
)

const (
	ProviderLog      = "log"
	ProviderHTTP     = "http"
	ProviderSendgrid = "sendgrid"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Provider delivers one rendered message.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

func NewProvider(cfg errors.MailConfig, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderLog:
		return NewLogProvider(logger), nil
	case ProviderHTTP:
		if cfg.EndpointURL == "" {
			return nil, fmt.Errorf("mail provider http requires an endpoint url")
		}
		return NewHTTPProvider(cfg.EndpointURL, cfg.Timeout, logger), nil
	case ProviderSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("mail provider sendgrid requires an api key")
		}
		return NewSendgridProvider(cfg.SendgridAPIKey, cfg.FromName, cfg.FromAddress, logger), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}

// LogProvider only writes the message to the log.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Name() string { return ProviderLog }

func (p *LogProvider) Send(_ context.Context, msg *Message) error {
	p.logger.Info("email sent",
		"provider", ProviderLog,
		"to", msg.To,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML))
	return nil
}

// HTTPProvider posts {to, subject, html} as JSON to a relay endpoint.
type HTTPProvider struct {
	endpointURL string
	timeout     time.Duration
	client      *http.Client
	logger      *slog.Logger
}

func NewHTTPProvider(endpointURL string, timeout time.Duration, logger *slog.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		endpointURL: endpointURL,
		timeout:     timeout,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (p *HTTPProvider) Name() string { return ProviderHTTP }

func (p *HTTPProvider) Send(ctx context.Context, msg *Message) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail endpoint returned status %d", resp.StatusCode)
	}

	p.logger.Debug("email relayed", "to", msg.To, "status", resp.StatusCode)
	return nil
}

type SendgridProvider struct {
	key    string
	from   *sgmail.Email
	logger *slog.Logger
}

func NewSendgridProvider(key, fromName, fromAddress string, logger *slog.Logger) *SendgridProvider {
	return &SendgridProvider{
		key:    key,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger,
	}
}

func (p *SendgridProvider) Name() string { return ProviderSendgrid }

func (p *SendgridProvider) Send(ctx context.Context, msg *Message) error {
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	personalization := sgmail.NewPersonalization()
	personalization.Subject = msg.Subject
	personalization.AddTos(sgmail.NewEmail(to.Name, to.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(p.from)
	m.AddPersonalizations(personalization)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(p.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}

	p.logger.Debug("email accepted by sendgrid", "to", to.Address, "status", res.StatusCode)
	return nil
}
