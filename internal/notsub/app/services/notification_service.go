package services

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"restaurant-pos/internal/notsub/app/core"
	"restaurant-pos/internal/xpkg/broker"
	"restaurant-pos/internal/xpkg/logger"
)

// NotificationService prints one line per status change, e.g.
// "Order ORD12345 is now ready for pickup".
type NotificationService struct {
	out   io.Writer
	mylog logger.Logger
	mu    sync.Mutex
}

func NewNotificationService(out io.Writer, mylog logger.Logger) *NotificationService {
	return &NotificationService{out: out, mylog: mylog}
}

func (s *NotificationService) Handle(body []byte) (broker.StatusChanged, error) {
	var event broker.StatusChanged
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("%w: %v", core.ErrBadMessage, err)
	}
	if event.OrderID == "" || event.NewStatus == "" {
		return event, fmt.Errorf("%w: missing order id or status", core.ErrBadMessage)
	}

	s.mylog.Action("notification_received").WithGroup("details").With(
		"order_id", event.OrderID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus,
	).Info("Received status update for order")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, event.Text()); err != nil {
		return event, err
	}
	return event, nil
}
