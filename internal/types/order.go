package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	PendingStatus    Status = "pending"
	ProcessingStatus Status = "processing"
	ShippedStatus    Status = "shipped"
	DeliveredStatus  Status = "delivered"
	CancelledStatus  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case PendingStatus, ProcessingStatus, ShippedStatus, DeliveredStatus, CancelledStatus:
		return true
	}
	return false
}

// Order is one validated order row, ready to be written to storage.
type Order struct {
	OrderID       string          `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        Status          `json:"status"`
	OrderDate     time.Time       `json:"order_date"`
}

// OrderInfo is a stored order as returned by queries, with the surrogate
// id and audit timestamps filled in.
type OrderInfo struct {
	ID            int64           `json:"id" db:"id"`
	OrderID       string          `json:"order_id" db:"order_id"`
	CustomerEmail string          `json:"customer_email" db:"customer_email"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	ProductName   string          `json:"product_name" db:"product_name"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status        Status          `json:"status" db:"status"`
	OrderDate     time.Time       `json:"order_date" db:"order_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderFilter carries the parameters of a listing request. Zero values
// mean "no filter"; the dates are an inclusive range on order_date.
type OrderFilter struct {
	CustomerEmail string
	Status        Status
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

type OrderStats struct {
	TotalOrders  int64            `json:"total_orders"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	ByStatus     map[Status]int64 `json:"by_status"`
}
