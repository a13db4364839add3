package model

import (
	"time"

	"github.com/google/uuid"
)

type ExpenseCategory string

const (
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryRepairs     ExpenseCategory = "repairs"
	ExpenseCategoryUtilities   ExpenseCategory = "utilities"
	ExpenseCategoryInsurance   ExpenseCategory = "insurance"
	ExpenseCategoryTaxes       ExpenseCategory = "taxes"
	ExpenseCategoryMortgage    ExpenseCategory = "mortgage"
	ExpenseCategoryManagement  ExpenseCategory = "management"
	ExpenseCategoryLegal       ExpenseCategory = "legal"
	ExpenseCategoryMarketing   ExpenseCategory = "marketing"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "pending"
	ExpenseStatusPaid    ExpenseStatus = "paid"
)

type Expense struct {
	Base
	OrgScope
	PropertyID    *uuid.UUID      `json:"property_id,omitempty" db:"property_id"`
	UnitID        *uuid.UUID      `json:"unit_id,omitempty" db:"unit_id"`
	VendorID      *uuid.UUID      `json:"vendor_id,omitempty" db:"vendor_id"`
	MaintenanceID *uuid.UUID      `json:"maintenance_id,omitempty" db:"maintenance_id"`
	Category      ExpenseCategory `json:"category" db:"category"`
	Description   string          `json:"description" db:"description"`
	Amount        int64           `json:"amount" db:"amount"`
	Date          time.Time       `json:"date" db:"date"`
	Status        ExpenseStatus   `json:"status" db:"status"`
	ReceiptID     *string         `json:"receipt_id,omitempty" db:"receipt_id"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
}

type ExpenseFilter struct {
	PropertyID *uuid.UUID      `form:"-"`
	VendorID   *uuid.UUID      `form:"-"`
	Category   ExpenseCategory `form:"category"`
	Status     ExpenseStatus   `form:"status"`
	DateRange
}

type ExpenseView struct {
	*Expense
	Property *Property `json:"property,omitempty"`
	Vendor   *Vendor   `json:"vendor,omitempty"`
}

type ExpenseSummary struct {
	Total      int64                     `json:"total"`
	Count      int                       `json:"count"`
	ByCategory map[ExpenseCategory]int64 `json:"by_category"`
	ByProperty map[uuid.UUID]int64       `json:"by_property"`
}

type CreateExpenseRequest struct {
	PropertyID  *string         `json:"property_id" binding:"omitempty,uuid"`
	UnitID      *string         `json:"unit_id" binding:"omitempty,uuid"`
	VendorID    *string         `json:"vendor_id" binding:"omitempty,uuid"`
	Category    ExpenseCategory `json:"category" binding:"required,oneof=maintenance repairs utilities insurance taxes mortgage management legal marketing other"`
	Description string          `json:"description" binding:"required,max=500"`
	Amount      int64           `json:"amount" binding:"required,gt=0"`
	Date        *time.Time      `json:"date"`
	Status      ExpenseStatus   `json:"status" binding:"omitempty,oneof=pending paid"`
	ReceiptID   *string         `json:"receipt_id"`
	Notes       *string         `json:"notes"`
}

type UpdateExpenseRequest struct {
	Category    *ExpenseCategory `json:"category" binding:"omitempty,oneof=maintenance repairs utilities insurance taxes mortgage management legal marketing other"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Amount      *int64           `json:"amount" binding:"omitempty,gt=0"`
	Date        *time.Time       `json:"date"`
	Status      *ExpenseStatus   `json:"status" binding:"omitempty,oneof=pending paid"`
	ReceiptID   *string          `json:"receipt_id"`
	Notes       *string          `json:"notes"`
}
