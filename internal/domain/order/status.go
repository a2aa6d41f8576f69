package order

import (
	"strings"

	"github.com/shop/storefront/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Status is the fulfilment state of an order
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// AllStatuses lists statuses in lifecycle order
var AllStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsCancellable reports whether a customer may still cancel
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// IsTerminal reports whether no further lifecycle step exists
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus is the settlement state of an order
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// IsValid checks if the status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Labels written by the back-office before statuses were normalised
var legacyStatusLabels = map[string]Status{
	"đang chờ":     StatusPending,
	"đang xử lý":   StatusProcessing,
	"đã giao hàng": StatusShipped,
	"đã nhận hàng": StatusDelivered,
	"đã hủy":       StatusCancelled,
}

var legacyPaymentLabels = map[string]PaymentStatus{
	"đã thanh toán": PaymentCompleted,
}

// fold case-folds s. Casers are stateful and must not be shared.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ParseStatus accepts canonical names case-insensitively and legacy labels
func ParseStatus(s string) (Status, error) {
	key := fold(s)
	for _, st := range AllStatuses {
		if fold(string(st)) == key {
			return st, nil
		}
	}
	if st, ok := legacyStatusLabels[key]; ok {
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+s)
}

// ParsePaymentStatus accepts canonical names case-insensitively and legacy labels
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	key := fold(s)
	for _, st := range []PaymentStatus{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded} {
		if fold(string(st)) == key {
			return st, nil
		}
	}
	if st, ok := legacyPaymentLabels[key]; ok {
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+s)
}
