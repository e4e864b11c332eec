package ingest

import (
	"github.com/wellywell/orderhub/internal/types"
)

// Deduplicate collapses rows sharing an order_id down to one row per id.
// The last occurrence in file order wins; the result keeps the position
// of each id's first occurrence. Earlier duplicates are superseded
// silently, they are not failures.
func Deduplicate(orders []types.Order) []types.Order {

	seen := make(map[string]int, len(orders))
	result := make([]types.Order, 0, len(orders))

	for _, order := range orders {
		if i, ok := seen[order.OrderID]; ok {
			result[i] = order
			continue
		}
		seen[order.OrderID] = len(result)
		result = append(result, order)
	}
	return result
}
