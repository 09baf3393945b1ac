package order

import "sort"

// SortForBoard orders the admin board in place: status weight first
// (Pending, Delivered, Paid, Cancelled, then anything unknown). Within
// Pending the oldest order comes first so the longest-waiting customer is
// at the top; within every other status the newest comes first so recently
// resolved orders stay visible. The sort is stable; ties beyond the
// timestamp keep their incoming order.
func SortForBoard(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		wi, wj := orders[i].Status.Weight(), orders[j].Status.Weight()
		if wi != wj {
			return wi < wj
		}
		if orders[i].Status == StatusPending {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
