package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendBaseURL = "https://api.resend.com"

// Отправка через HTTP API Resend.
type ResendSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewResendSender(apiKey string, client *http.Client, log *zap.Logger) *ResendSender {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendSender{apiKey: apiKey, baseURL: resendBaseURL, client: client, log: log}
}

// WithBaseURL подменяет адрес API (тесты, прокси).
func (s *ResendSender) WithBaseURL(u string) *ResendSender {
	s.baseURL = u
	return s
}

type resendAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	ReplyTo     string             `json:"reply_to,omitempty"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *ResendSender) Send(ctx context.Context, msg Email) (string, error) {
	body := resendRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		body.Attachments = append(body.Attachments, resendAttachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			ContentType: a.ContentType,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("resend marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("resend read: %w", err)
	}

	var out resendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// тело не JSON (прокси, HTML-страница ошибки): решаем по статусу
		s.log.Debug("resend response is not json",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Error(err),
		)
	}

	if resp.StatusCode >= 300 {
		if out.Message == "" {
			out.Message = string(raw)
		}
		return "", fmt.Errorf("resend status %d: %s", resp.StatusCode, out.Message)
	}
	return out.ID, nil
}
