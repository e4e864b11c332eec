package db

import (
	"fmt"
)

type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("Order %s not found", e.OrderID)
}

// BatchWriteError marks a failed batch upsert. The whole batch was
// rolled back; Constraint is true when the write hit an integrity
// constraint rather than a connectivity or server problem.
type BatchWriteError struct {
	Rows       int
	Constraint bool
	Err        error
}

func (e *BatchWriteError) Error() string {
	return fmt.Sprintf("batch of %d rows failed: %s", e.Rows, e.Err)
}

func (e *BatchWriteError) Unwrap() error {
	return e.Err
}
