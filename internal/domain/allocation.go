package domain

// AllocationStatus is the lifecycle status of anything that pins product units
// to a date range: cart lines (Draft) and order items (the rest).
type AllocationStatus string

const (
	AllocationDraft      AllocationStatus = "Draft"
	AllocationReserved   AllocationStatus = "Reserved"
	AllocationCheckedOut AllocationStatus = "CheckedOut"
	AllocationCheckedIn  AllocationStatus = "CheckedIn"
	AllocationCancelled  AllocationStatus = "Cancelled"
	AllocationLost       AllocationStatus = "Lost"
	AllocationDamaged    AllocationStatus = "Damaged"
)

// BlockingStatuses are the persisted statuses that count against stock.
var BlockingStatuses = []AllocationStatus{AllocationReserved, AllocationCheckedOut}

// Blocks reports whether an allocation in this status holds physical units.
func (s AllocationStatus) Blocks() bool {
	return s == AllocationReserved || s == AllocationCheckedOut
}

type Allocation struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Range     DateRange        `json:"range"`
	Status    AllocationStatus `json:"status"`
}
