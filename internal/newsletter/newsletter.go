// Package newsletter validates and records newsletter signups.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/monarkh/site/internal/store"
	"github.com/monarkh/site/internal/telemetry"
)

// ErrInvalidEmail is returned for addresses that cannot receive mail.
var ErrInvalidEmail = errors.New("invalid email address")

const maxEmailLength = 254

// Normalize trims and lowercases email and checks that it is a bare
// address with a dotted domain.
func Normalize(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > maxEmailLength {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Service stores signups.
type Service struct {
	store   store.Store
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewService creates a service. metrics and logger may be nil.
func NewService(s store.Store, metrics *telemetry.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:   s,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/monarkh/site/internal/newsletter"),
		logger:  logger,
	}
}

// Subscribe validates email and stores it. It reports whether the address
// was new; subscribing twice is not an error.
func (s *Service) Subscribe(ctx context.Context, email, source string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "newsletter.Subscribe",
		trace.WithAttributes(attribute.String("newsletter.source", source)))
	defer span.End()

	addr, err := Normalize(email)
	if err != nil {
		s.metrics.Signup(source, "invalid")
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	created, err := s.store.Subscribe(ctx, addr, source)
	if err != nil {
		s.metrics.Signup(source, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}

	result := "duplicate"
	if created {
		result = "new"
	}
	s.metrics.Signup(source, result)
	span.SetAttributes(attribute.Bool("newsletter.created", created))
	s.logger.Info("newsletter signup", "source", source, "result", result)

	return created, nil
}
