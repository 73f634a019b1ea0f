package models

// TableStatus is the availability state of a physical table
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableReserved  TableStatus = "RESERVED"
	TableOccupied  TableStatus = "OCCUPIED"
)

// ValidTableStatus reports whether s is one of the known table states
func ValidTableStatus(s TableStatus) bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied:
		return true
	}
	return false
}

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationReserved  ReservationStatus = "RESERVED"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// OrderStatus is the kitchen-side state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the known order states
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order. The Thai tokens are the
// wire values existing consumers depend on; never compare against raw
// string literals outside this package.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "ยังไม่ชำระเงิน"
	PaymentPaid      PaymentStatus = "ชำระเงินแล้ว"
	PaymentCancelled PaymentStatus = "ยกเลิกออเดอร์"
)

// ValidPaymentStatus reports whether s is one of the known payment states
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

// Code returns the language-neutral identifier for a payment state
func (s PaymentStatus) Code() string {
	switch s {
	case PaymentUnpaid:
		return "UNPAID"
	case PaymentPaid:
		return "PAID"
	case PaymentCancelled:
		return "CANCELLED"
	}
	return string(s)
}

// PaymentStatusFromCode maps a language-neutral identifier back to the
// stored payment state token. The second return is false for unknown codes.
func PaymentStatusFromCode(code string) (PaymentStatus, bool) {
	switch code {
	case "UNPAID":
		return PaymentUnpaid, true
	case "PAID":
		return PaymentPaid, true
	case "CANCELLED":
		return PaymentCancelled, true
	}
	return "", false
}

// PaymentMethod is the channel an order was (or will be) paid through
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodQR        PaymentMethod = "QR_CODE"
	PaymentMethodPromptPay PaymentMethod = "PROMPTPAY"
)

// ValidPaymentMethod reports whether m is one of the known payment channels
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodQR, PaymentMethodPromptPay:
		return true
	}
	return false
}

// StatusLabels maps an order status to the Thai label shown to customers
var StatusLabels = map[OrderStatus]string{
	OrderPending:   "ยังไม่ชำระเงิน",
	OrderCompleted: "ชำระเงินแล้ว",
	OrderCancelled: "ยกเลิก",
}

// Label returns the customer-facing Thai label for an order status
func (s OrderStatus) Label() string {
	if label, ok := StatusLabels[s]; ok {
		return label
	}
	return string(s)
}
