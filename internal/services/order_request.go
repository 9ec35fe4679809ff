package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gitshopapp/boxshop/internal/cart"
	"github.com/gitshopapp/boxshop/internal/email"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/money"
	"github.com/gitshopapp/boxshop/internal/observability"
)

// Contact is the buyer's details attached to an order request.
type Contact struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Comment string `json:"comment" validate:"max=2000"`
}

// OrderRequest is the receipt returned after a request was sent to sales.
type OrderRequest struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Total       float64   `json:"total"`
	Units       int       `json:"units"`
}

// OrderRequestService e-mails cart contents to the sales manager. No payment is taken.
type OrderRequestService struct {
	provider email.Provider
	renderer *email.Renderer
	notifyTo string
	adminURL string
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderRequestService(provider email.Provider, notifyTo, baseURL string, logger *slog.Logger) (*OrderRequestService, error) {
	if provider == nil {
		return nil, fmt.Errorf("email provider is required")
	}
	renderer, err := email.NewRenderer()
	if err != nil {
		return nil, err
	}

	adminURL := ""
	if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
		adminURL = base + "/admin"
	}

	return &OrderRequestService{
		provider: provider,
		renderer: renderer,
		notifyTo: strings.TrimSpace(notifyTo),
		adminURL: adminURL,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *OrderRequestService) Submit(ctx context.Context, c cart.Cart, contact Contact) (*OrderRequest, error) {
	span := sentry.StartSpan(
		ctx,
		"service.order_request.submit",
		sentry.WithOpName("service.order_request"),
		sentry.WithDescription("Submit"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)
	meter.Count("order_request.received", 1)
	recordFailed := func(reason string) {
		meter.Count("order_request.failed", 1, sentry.WithAttributes(
			attribute.String("reason", reason),
		))
	}

	if c.IsEmpty() {
		recordFailed("empty_cart")
		return nil, ErrCartEmpty
	}

	contact = normalizeContact(contact)
	if err := s.validate.Struct(contact); err != nil {
		recordFailed("invalid_contact")
		return nil, UserError{Message: describeContactError(err)}
	}

	submittedAt := s.now().UTC()
	request := &OrderRequest{
		ID:          newRequestNumber(),
		SubmittedAt: submittedAt,
		Total:       c.Total(),
		Units:       c.Units(),
	}

	msg, err := s.renderer.RenderOrderRequest(s.orderRequestInfo(request, c, contact))
	if err != nil {
		recordFailed("render_failed")
		return nil, fmt.Errorf("failed to render order request: %w", err)
	}
	msg.To = s.notifyTo
	msg.ReplyTo = contact.Email
	if msg.To == "" {
		msg.To = contact.Email
	}

	if err := s.provider.SendEmail(ctx, msg); err != nil {
		recordFailed("send_failed")
		return nil, fmt.Errorf("failed to send order request: %w", err)
	}

	meter.Count("order_request.sent", 1)
	meter.Distribution("order_request.total", request.Total, sentry.WithAttributes(
		attribute.Int("lines", len(c.Lines)),
	))
	logger.Info("order request sent",
		"request_id", request.ID,
		"lines", len(c.Lines),
		"units", request.Units,
		"total", money.Format(request.Total),
	)

	return request, nil
}

func (s *OrderRequestService) orderRequestInfo(request *OrderRequest, c cart.Cart, contact Contact) *email.OrderRequestInfo {
	items := make([]email.OrderItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, email.OrderItem{
			Name:       line.Name,
			Size:       line.Size,
			Quantity:   line.Quantity,
			UnitPrice:  money.Format(line.EffectiveUnitPrice()),
			TotalPrice: money.Format(line.Total()),
		})
	}

	return &email.OrderRequestInfo{
		RequestID:     request.ID,
		SubmittedAt:   request.SubmittedAt.Format("02.01.2006 15:04 MST"),
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		CustomerPhone: contact.Phone,
		Comment:       contact.Comment,
		Items:         items,
		Total:         money.Format(request.Total),
		Units:         request.Units,
		AdminURL:      s.adminURL,
	}
}

func normalizeContact(c Contact) Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Comment: strings.TrimSpace(c.Comment),
	}
}

func describeContactError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid contact details"
	}
	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Email" && fe.Tag() == "email":
		return "Email address is not valid"
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case fe.Tag() == "max":
		return fmt.Sprintf("%s is too long", fe.Field())
	default:
		return fmt.Sprintf("%s is not valid", fe.Field())
	}
}

func newRequestNumber() string {
	return "R-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
