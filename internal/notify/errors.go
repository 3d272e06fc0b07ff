package notify

import (
	"errors"
	"fmt"

	"github.com/Leganyst/dj-booking/internal/model"
)

// Транспорт почты не настроен, письмо только записано в лог.
var ErrTransportNotConfigured = errors.New("email transport not configured")

// NotificationError — неудачная попытка отправки. Наружу не уходит,
// только в лог и в запись notifications.
type NotificationError struct {
	Type      model.NotificationType
	Channel   model.NotificationChannel
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s via %s to %s: %v", e.Type, e.Channel, e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
