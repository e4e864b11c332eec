package csvparse

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wellywell/orderhub/internal/types"
)

var testHeader = []string{
	"order_id", "customer_email", "customer_name", "product_name",
	"quantity", "unit_price", "total_amount", "status", "order_date",
}

func TestHeader(t *testing.T) {

	testCases := []struct {
		name    string
		header  []string
		wantErr string
	}{
		{"all columns", testHeader, ""},
		{"reordered columns", []string{
			"status", "order_date", "order_id", "customer_email", "customer_name",
			"product_name", "quantity", "unit_price", "total_amount"}, ""},
		{"bom on first column", append([]string{"\ufefforder_id"}, testHeader[1:]...), ""},
		{"extra columns are fine", append([]string{"comment"}, testHeader...), ""},
		{"missing one column", testHeader[:8], "missing required columns: order_date"},
		{"missing several columns", testHeader[:7], "missing required columns: status, order_date"},
		{"empty header", []string{}, "missing required columns"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cols, err := Header(tc.header)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				for _, name := range requiredColumns {
					assert.Contains(t, cols, name)
				}
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func validRecord() []string {
	return []string{
		"ORD-1", "a@b.com", "Alice", "Widget",
		"2", "9.99", "19.98", "pending", "2024-05-01T10:00:00Z",
	}
}

func TestRowValid(t *testing.T) {

	cols, err := Header(testHeader)
	assert.NoError(t, err)

	order, err := Row(cols, validRecord(), 2)
	assert.NoError(t, err)

	assert.Equal(t, types.Order{
		OrderID:       "ORD-1",
		CustomerEmail: "a@b.com",
		CustomerName:  "Alice",
		ProductName:   "Widget",
		Quantity:      2,
		UnitPrice:     decimal.RequireFromString("9.99"),
		TotalAmount:   decimal.RequireFromString("19.98"),
		Status:        types.PendingStatus,
		OrderDate:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}, order)
}

func TestRowTrimsFields(t *testing.T) {

	cols, err := Header(testHeader)
	assert.NoError(t, err)

	record := validRecord()
	record[0] = "  ORD-1  "
	record[2] = " Alice "

	order, err := Row(cols, record, 2)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-1", order.OrderID)
	assert.Equal(t, "Alice", order.CustomerName)
}

func TestRowValidation(t *testing.T) {

	cols, err := Header(testHeader)
	assert.NoError(t, err)

	withField := func(i int, v string) []string {
		record := validRecord()
		record[i] = v
		return record
	}

	testCases := []struct {
		name    string
		record  []string
		wantErr string
	}{
		{"empty order_id", withField(0, ""), "Row 5: order_id is required"},
		{"blank email", withField(1, "   "), "Row 5: customer_email is required"},
		{"short record", validRecord()[:4], "Row 5: quantity is required"},
		{"zero quantity", withField(4, "0"), "Row 5: quantity must be a positive integer"},
		{"negative quantity", withField(4, "-1"), "Row 5: quantity must be a positive integer"},
		{"non-integer quantity", withField(4, "2.5"), "Row 5: quantity must be a positive integer"},
		{"bad unit_price", withField(5, "abc"), "Row 5: unit_price must be a positive number"},
		{"negative unit_price", withField(5, "-9.99"), "Row 5: unit_price must be a positive number"},
		{"zero total_amount", withField(6, "0"), "Row 5: total_amount must be a positive number"},
		{"unknown status", withField(7, "sent"), "Row 5: status must be one of"},
		{"status is case-sensitive", withField(7, "Pending"), "Row 5: status must be one of"},
		{"bad date", withField(8, "not-a-date"), "Row 5: order_date must be an ISO-8601 timestamp"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Row(cols, tc.record, 5)
			assert.ErrorContains(t, err, tc.wantErr)

			var rowErr *RowError
			assert.True(t, errors.As(err, &rowErr))
			assert.Equal(t, 5, rowErr.Line)
		})
	}
}

func TestRowChecksInOrder(t *testing.T) {

	cols, err := Header(testHeader)
	assert.NoError(t, err)

	// several broken fields, the first failing rule wins
	record := validRecord()
	record[4] = "-1"
	record[7] = "sent"
	record[8] = "nope"

	_, err = Row(cols, record, 3)
	assert.ErrorContains(t, err, "quantity must be a positive integer")
}

func TestRowDateFormats(t *testing.T) {

	cols, err := Header(testHeader)
	assert.NoError(t, err)

	testCases := []struct {
		value string
		want  time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			order, err := Row(cols, withDate(tc.value), 2)
			assert.NoError(t, err)
			assert.True(t, tc.want.Equal(order.OrderDate))
		})
	}
}

func withDate(value string) []string {
	record := validRecord()
	record[8] = value
	return record
}
