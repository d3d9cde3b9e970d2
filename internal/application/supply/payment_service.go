package supply

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplyPaymentService handles settlement of supplier payments
type SupplyPaymentService struct {
	payments supply.SupplyPaymentRepository
	logger   *zap.Logger
}

// NewSupplyPaymentService creates a new supply payment service
func NewSupplyPaymentService(payments supply.SupplyPaymentRepository, logger *zap.Logger) *SupplyPaymentService {
	return &SupplyPaymentService{payments: payments, logger: logger}
}

// GetPayment fetches one payment by ID
func (s *SupplyPaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// GetPaymentBySupply fetches the payment attached to a supply
func (s *SupplyPaymentService) GetPaymentBySupply(ctx context.Context, supplyID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.payments.FindBySupplyID(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// ListPayments lists payments with an optional status filter and pagination
func (s *SupplyPaymentService) ListPayments(ctx context.Context, page, pageSize int, status string) (*shared.Paginated[PaymentResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	if status != "" {
		filter.Filters["status"] = status
	}

	payments, err := s.payments.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.payments.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *ToPaymentResponse(&payments[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkPaid settles a payment with an optimistic version check
func (s *SupplyPaymentService) MarkPaid(ctx context.Context, id uuid.UUID, version int) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Version != version {
		return nil, shared.ErrConcurrencyConflict
	}

	if err := payment.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.payments.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("supply payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("supply_id", payment.SupplyID.String()),
		zap.String("amount_due", payment.AmountDue.String()))

	return ToPaymentResponse(payment), nil
}
