package delivery

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tripplanner/internal/logger"
	"tripplanner/internal/metrics"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrSendFailed   = errors.New("email send failed")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Service struct {
	sender  Sender
	timeout time.Duration
	log     logger.Logger
}

func NewService(sender Sender, timeout time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{sender: sender, timeout: timeout, log: log}
}

// ValidateEmail checks the address shape only.
func ValidateEmail(addr string) error {
	if !emailPattern.MatchString(strings.TrimSpace(addr)) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, addr)
	}
	return nil
}

func (s *Service) Deliver(ctx context.Context, to string, p Plan) (err error) {
	to = strings.TrimSpace(to)
	if err := ValidateEmail(to); err != nil {
		return err
	}
	msg, err := render(to, p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer metrics.ObserveCall("email", time.Now(), &err)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error("email send failed", map[string]interface{}{
			"capability": "email", "destination": p.Destination, "error": err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	s.log.Info("trip plan delivered", map[string]interface{}{"destination": p.Destination})
	return nil
}
