package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/pkg/fsm"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusViewed    InvoiceStatus = "viewed"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var InvoiceLifecycle = fsm.New("invoice", map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:    {InvoiceStatusViewed, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusViewed:  {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusPartial: {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusOverdue, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled},
})

// Open reports whether the invoice has been issued and still has money owing.
func (s InvoiceStatus) Open() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

type LineItemType string

const (
	LineItemRent    LineItemType = "rent"
	LineItemDeposit LineItemType = "deposit"
	LineItemUtility LineItemType = "utility"
	LineItemLateFee LineItemType = "late_fee"
	LineItemOther   LineItemType = "other"
)

const LateFeeDescription = "Late Fee"

type LineItem struct {
	Description string       `json:"description" binding:"required,max=200"`
	Amount      int64        `json:"amount" binding:"cents"`
	Type        LineItemType `json:"type" binding:"omitempty,oneof=rent deposit utility late_fee other"`
}

// LineItems is stored as a JSONB column.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *LineItems) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported line items type %T", src)
	}
	return json.Unmarshal(data, l)
}

func (l LineItems) Sum() int64 {
	var total int64
	for _, item := range l {
		total += item.Amount
	}
	return total
}

type Invoice struct {
	Base
	OrgScope
	InvoiceNumber  string        `json:"invoice_number" db:"invoice_number"`
	TenantID       uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	LeaseID        *uuid.UUID    `json:"lease_id,omitempty" db:"lease_id"`
	PropertyID     *uuid.UUID    `json:"property_id,omitempty" db:"property_id"`
	UnitID         *uuid.UUID    `json:"unit_id,omitempty" db:"unit_id"`
	LineItems      LineItems     `json:"line_items" db:"line_items"`
	Subtotal       int64         `json:"subtotal" db:"subtotal"`
	Total          int64         `json:"total" db:"total"`
	AmountPaid     int64         `json:"amount_paid" db:"amount_paid"`
	AmountDue      int64         `json:"amount_due" db:"amount_due"`
	Status         InvoiceStatus `json:"status" db:"status"`
	IssueDate      time.Time     `json:"issue_date" db:"issue_date"`
	DueDate        time.Time     `json:"due_date" db:"due_date"`
	SentAt         *time.Time    `json:"sent_at,omitempty" db:"sent_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	ReminderCount  int           `json:"reminder_count" db:"reminder_count"`
	LastReminderAt *time.Time    `json:"last_reminder_at,omitempty" db:"last_reminder_at"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
}

// Recompute derives subtotal, total and amount due from the line items.
// Only called while building a draft; issued invoices grow through AddLateFee.
func (i *Invoice) Recompute() {
	i.Subtotal = i.LineItems.Sum()
	i.Total = i.Subtotal
	i.AmountDue = i.Total - i.AmountPaid
}

// AddLateFee appends a late fee line and grows the totals by amount.
func (i *Invoice) AddLateFee(amount int64) {
	i.LineItems = append(i.LineItems, LineItem{
		Description: LateFeeDescription,
		Amount:      amount,
		Type:        LineItemLateFee,
	})
	i.Total += amount
	i.AmountDue = i.Total - i.AmountPaid
}

// Apply records amount against the invoice and returns the resulting status.
func (i *Invoice) Apply(amount int64) InvoiceStatus {
	i.AmountPaid += amount
	if i.AmountPaid >= i.Total {
		i.AmountPaid = i.Total
		i.AmountDue = 0
		return InvoiceStatusPaid
	}
	i.AmountDue = i.Total - i.AmountPaid
	return InvoiceStatusPartial
}

type InvoiceFilter struct {
	Status   InvoiceStatus `form:"status"`
	TenantID *uuid.UUID    `form:"-"`
	LeaseID  *uuid.UUID    `form:"-"`
}

type InvoiceView struct {
	*Invoice
	Tenant *Tenant `json:"tenant,omitempty"`
}

type InvoiceStats struct {
	Outstanding   int64 `json:"outstanding"`
	OpenCount     int   `json:"open_count"`
	OverdueCount  int   `json:"overdue_count"`
	OverdueAmount int64 `json:"overdue_amount"`
	PaidThisMonth int64 `json:"paid_this_month"`
	DraftCount    int   `json:"draft_count"`
}

type CreateInvoiceRequest struct {
	TenantID        string     `json:"tenant_id" binding:"required,uuid"`
	LeaseID         *string    `json:"lease_id" binding:"omitempty,uuid"`
	LineItems       []LineItem `json:"line_items" binding:"required,min=1,dive"`
	IssueDate       *time.Time `json:"issue_date"`
	DueDate         *time.Time `json:"due_date"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
	SendImmediately bool       `json:"send_immediately"`
}

type MarkPaidRequest struct {
	Method PaymentMethod `json:"method" binding:"omitempty,oneof=cash check bank_transfer card ach other"`
	PaidAt *time.Time    `json:"paid_at"`
}

type LateFeeRequest struct {
	Amount int64 `json:"amount" binding:"omitempty,cents"`
}
