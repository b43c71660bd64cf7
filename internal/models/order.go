package models

import "time"

type CheckoutStatus string

const (
	CheckoutStatusIdle        CheckoutStatus = "idle"
	CheckoutStatusAuthorizing CheckoutStatus = "authorizing"
	CheckoutStatusProcessing  CheckoutStatus = "processing"
	CheckoutStatusFinalizing  CheckoutStatus = "finalizing"
	CheckoutStatusDone        CheckoutStatus = "done"
	CheckoutStatusFailed      CheckoutStatus = "failed"
)

// InFlight reports whether a checkout is between idle and a terminal state.
func (s CheckoutStatus) InFlight() bool {
	switch s {
	case CheckoutStatusAuthorizing, CheckoutStatusProcessing, CheckoutStatusFinalizing:
		return true
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusDone || s == CheckoutStatusFailed
}

func (s CheckoutStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCard   PaymentMethod = "card"
)

// Label is the name shown on the receipt.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodWallet:
		return "Hweibo Wallet"
	case PaymentMethodCard:
		return "Card"
	}
	return string(m)
}

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodCard
}

type Totals struct {
	Subtotal   int64 `json:"subtotal"`
	Shipping   int64 `json:"shipping"`
	Tax        int64 `json:"tax"`
	GrandTotal int64 `json:"grand_total"`
}

type TotalsView struct {
	Totals
	SubtotalLabel   string `json:"subtotal_label"`
	ShippingLabel   string `json:"shipping_label"`
	TaxLabel        string `json:"tax_label"`
	GrandTotalLabel string `json:"grand_total_label"`
}

// OrderReceipt is produced once per successful checkout and never mutated.
// Items is a copy taken before the cart was cleared.
type OrderReceipt struct {
	OrderID       string        `json:"order_id"`
	Items         []CartItem    `json:"items"`
	Totals        Totals        `json:"totals"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentLabel  string        `json:"payment_label"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Clone returns a receipt that shares no memory with r.
func (r *OrderReceipt) Clone() *OrderReceipt {
	if r == nil {
		return nil
	}
	c := *r
	c.Items = append([]CartItem(nil), r.Items...)
	return &c
}

type CheckoutRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=wallet card"`
}

type CheckoutState struct {
	Status  CheckoutStatus `json:"status"`
	Pending *Totals        `json:"pending,omitempty"`
	Receipt *OrderReceipt  `json:"receipt,omitempty"`
	Failure string         `json:"failure,omitempty"`
}
