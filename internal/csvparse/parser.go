package csvparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wellywell/orderhub/internal/types"
)

// Columns maps each required CSV column to its position in the file.
type Columns map[string]int

var requiredColumns = []string{
	"order_id",
	"customer_email",
	"customer_name",
	"product_name",
	"quantity",
	"unit_price",
	"total_amount",
	"status",
	"order_date",
}

// RowError is a per-row validation failure. It is an expected outcome,
// recorded in the upload report, never fatal to the upload.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Line, e.Reason)
}

// Header consumes the header record and resolves the position of every
// required column. Any missing column fails the whole upload.
func Header(record []string) (Columns, error) {

	cols := make(Columns, len(requiredColumns))
	for i, name := range record {
		if i == 0 {
			// csv files exported on Windows often start with a BOM
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// Row validates one data record and returns either a fully populated
// order or a *RowError tagged with the file line. Checks run in a fixed
// order and stop at the first failure.
func Row(cols Columns, record []string, line int) (types.Order, error) {

	var order types.Order

	get := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for _, name := range requiredColumns {
		if get(name) == "" {
			return order, &RowError{Line: line, Reason: fmt.Sprintf("%s is required", name)}
		}
	}

	quantity, err := strconv.Atoi(get("quantity"))
	if err != nil || quantity <= 0 {
		return order, &RowError{Line: line, Reason: "quantity must be a positive integer"}
	}

	unitPrice, err := decimal.NewFromString(get("unit_price"))
	if err != nil || !unitPrice.IsPositive() {
		return order, &RowError{Line: line, Reason: "unit_price must be a positive number"}
	}

	totalAmount, err := decimal.NewFromString(get("total_amount"))
	if err != nil || !totalAmount.IsPositive() {
		return order, &RowError{Line: line, Reason: "total_amount must be a positive number"}
	}

	status := types.Status(get("status"))
	if !status.IsValid() {
		return order, &RowError{Line: line, Reason: fmt.Sprintf("status must be one of: %s", validStatusList)}
	}

	orderDate, err := parseTimestamp(get("order_date"))
	if err != nil {
		return order, &RowError{Line: line, Reason: "order_date must be an ISO-8601 timestamp"}
	}

	order = types.Order{
		OrderID:       get("order_id"),
		CustomerEmail: get("customer_email"),
		CustomerName:  get("customer_name"),
		ProductName:   get("product_name"),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   totalAmount,
		Status:        status,
		OrderDate:     orderDate,
	}
	return order, nil
}

const validStatusList = "pending, processing, shipped, delivered, cancelled"
