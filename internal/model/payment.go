package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var PaymentLifecycle = fsm.New("payment", map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
})

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodACH          PaymentMethod = "ach"
	PaymentMethodOther        PaymentMethod = "other"
)

type Payment struct {
	Base
	OrgScope
	TenantID   uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	LeaseID    *uuid.UUID    `json:"lease_id,omitempty" db:"lease_id"`
	InvoiceID  *uuid.UUID    `json:"invoice_id,omitempty" db:"invoice_id"`
	Amount     int64         `json:"amount" db:"amount"`
	Method     PaymentMethod `json:"method" db:"method"`
	Status     PaymentStatus `json:"status" db:"status"`
	PaidAt     time.Time     `json:"paid_at" db:"paid_at"`
	DueDate    *time.Time    `json:"due_date,omitempty" db:"due_date"`
	IsLate     bool          `json:"is_late" db:"is_late"`
	Reference  *string       `json:"reference,omitempty" db:"reference"`
	RefundedAt *time.Time    `json:"refunded_at,omitempty" db:"refunded_at"`
}

// LateAgainst reports whether a payment made at paidAt misses dueDate.
func LateAgainst(paidAt time.Time, dueDate *time.Time) bool {
	return dueDate != nil && paidAt.After(*dueDate)
}

type PaymentFilter struct {
	TenantID *uuid.UUID    `form:"-"`
	LeaseID  *uuid.UUID    `form:"-"`
	Status   PaymentStatus `form:"status"`
	DateRange
}

type PaymentView struct {
	*Payment
	Tenant *Tenant `json:"tenant,omitempty"`
}

type PaymentStats struct {
	CollectedThisMonth int64 `json:"collected_this_month"`
	PaymentsThisMonth  int   `json:"payments_this_month"`
	LateCount          int   `json:"late_count"`
	RefundedAmount     int64 `json:"refunded_amount"`
}

type RecordPaymentRequest struct {
	TenantID  string        `json:"tenant_id" binding:"required,uuid"`
	LeaseID   *string       `json:"lease_id" binding:"omitempty,uuid"`
	InvoiceID *string       `json:"invoice_id" binding:"omitempty,uuid"`
	Amount    int64         `json:"amount" binding:"required,gt=0"`
	Method    PaymentMethod `json:"method" binding:"required,oneof=cash check bank_transfer card ach other"`
	PaidAt    *time.Time    `json:"paid_at"`
	DueDate   *time.Time    `json:"due_date"`
	Reference *string       `json:"reference" binding:"omitempty,max=200"`
}
