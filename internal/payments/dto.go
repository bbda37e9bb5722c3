package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	"github.com/wakelni/wakelni-backend/pkg/money"
)

// CheckoutSessionResponse points the client at the hosted payment page.
type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	OrderID   string `json:"order_id"`
}

// ConfirmRequest closes the loop after the hosted checkout redirect.
type ConfirmRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// PaymentDTO is the settlement snapshot returned on confirmation.
type PaymentDTO struct {
	ID             uuid.UUID           `json:"id"`
	OrderID        uuid.UUID           `json:"order_id"`
	Amount         string              `json:"amount"`
	AmountCents    int                 `json:"amount_cents"`
	Status         enums.PaymentStatus `json:"status"`
	Method         enums.PaymentMethod `json:"method"`
	TransactionRef string              `json:"transaction_ref,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ConfirmResponse pairs the payment snapshot with the resulting order status.
type ConfirmResponse struct {
	Payment     PaymentDTO        `json:"payment"`
	OrderStatus enums.OrderStatus `json:"order_status"`
}

// FromModel maps a payment row into the response shape.
func FromModel(payment *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:             payment.ID,
		OrderID:        payment.OrderID,
		Amount:         money.FormatCents(payment.AmountCents),
		AmountCents:    payment.AmountCents,
		Status:         payment.Status,
		Method:         payment.Method,
		TransactionRef: payment.TransactionRef,
		CreatedAt:      payment.CreatedAt,
	}
}
