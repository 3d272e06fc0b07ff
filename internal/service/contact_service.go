package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/notify"
)

type ContactNotifier interface {
	NotifyContactMessage(ctx context.Context, msg notify.ContactMessage) notify.Result
}

type ContactResult struct {
	EmailSent bool
}

// ContactService пересылает сообщение с формы бизнесу. В БД ничего, кроме
// журнала уведомлений, не пишем.
type ContactService struct {
	notifier ContactNotifier
	log      *zap.Logger
}

func NewContactService(notifier ContactNotifier, log *zap.Logger) *ContactService {
	return &ContactService{notifier: notifier, log: log}
}

func (s *ContactService) Send(ctx context.Context, req ContactRequest) (*ContactResult, error) {
	if err := validateContactRequest(req); err != nil {
		return nil, err
	}

	res := s.notifier.NotifyContactMessage(ctx, notify.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	})
	if !res.Sent {
		s.log.Warn("contact message not delivered", zap.String("email", req.Email))
	}
	return &ContactResult{EmailSent: res.Sent}, nil
}
