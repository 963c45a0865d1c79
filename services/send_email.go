package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends transactional email through Resend.
type Mailer struct {
	apiKey   string
	from     string
	notifyTo string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

func NewMailer(apiKey, from, notifyTo string) *Mailer {
	return &Mailer{
		apiKey:   apiKey,
		from:     from,
		notifyTo: notifyTo,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   log.With().Str("service", "mailer").Logger(),
	}
}

// WithEndpoint points the mailer at another Resend-compatible URL.
func (m *Mailer) WithEndpoint(endpoint string) *Mailer {
	m.endpoint = endpoint
	return m
}

// SendEmail sends an HTML email to recipients.
func (m *Mailer) SendEmail(ctx context.Context, subject, body, replyTo string, recipients []string) error {
	if len(recipients) == 0 {
		return errs.NewMissingRequiredFieldError("recipients")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewUpstreamError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewUpstreamError("resend", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewUpstreamError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewUpstreamError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		m.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

// NotifyContact forwards a contact submission to the site owner.
func (m *Mailer) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	subject := fmt.Sprintf("Portfolio contact: %s", msg.Subject)
	body := fmt.Sprintf(
		"<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Subject:</strong> %s</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Message),
	)
	// Resend rejects the whole message over a bad reply_to.
	replyTo := ""
	if addr, err := mail.ParseAddress(msg.Email); err == nil {
		replyTo = addr.Address
	} else {
		m.logger.Debug().Str("email", msg.Email).Msg("contact email is not a valid address, omitting reply_to")
	}
	return m.SendEmail(ctx, subject, body, replyTo, []string{m.notifyTo})
}
