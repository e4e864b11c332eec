package ingest

import (
	"testing"

	"gotest.tools/assert"

	"github.com/wellywell/orderhub/internal/types"
)

func order(id string, status types.Status) types.Order {
	return types.Order{OrderID: id, Status: status}
}

func TestDeduplicate(t *testing.T) {

	testCases := []struct {
		name         string
		in           []types.Order
		wantIDs      []string
		wantStatuses []types.Status
	}{
		{
			"no duplicates",
			[]types.Order{order("A", types.PendingStatus), order("B", types.ShippedStatus)},
			[]string{"A", "B"},
			[]types.Status{types.PendingStatus, types.ShippedStatus},
		},
		{
			"last occurrence wins",
			[]types.Order{
				order("A", types.PendingStatus),
				order("B", types.PendingStatus),
				order("A", types.ShippedStatus),
			},
			[]string{"A", "B"},
			[]types.Status{types.ShippedStatus, types.PendingStatus},
		},
		{
			"triple duplicate",
			[]types.Order{
				order("A", types.PendingStatus),
				order("A", types.ProcessingStatus),
				order("A", types.DeliveredStatus),
			},
			[]string{"A"},
			[]types.Status{types.DeliveredStatus},
		},
		{
			"empty batch",
			nil,
			nil,
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Deduplicate(tc.in)
			assert.Equal(t, len(tc.wantIDs), len(got))
			for i := range got {
				assert.Equal(t, tc.wantIDs[i], got[i].OrderID)
				assert.Equal(t, tc.wantStatuses[i], got[i].Status)
			}
		})
	}
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {

	in := []types.Order{
		order("A", types.PendingStatus),
		order("A", types.ShippedStatus),
	}

	_ = Deduplicate(in)

	assert.Equal(t, types.PendingStatus, in[0].Status)
	assert.Equal(t, types.ShippedStatus, in[1].Status)
}
