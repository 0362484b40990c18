package sale

import "time"

// RecordedEvent is emitted after a ledger entry has been written. The
// Remaining field reflects the quantity after the stock decrement, or the
// pre-sale quantity when the decrement was refused.
type RecordedEvent struct {
	SaleID       string
	ProductID    string
	ProductName  string
	SellingPrice float64
	Remaining    int
	OccurredAt   time.Time
}

func (RecordedEvent) EventName() string { return "sale.recorded" }

func NewRecordedEvent(r *Record, remaining int) RecordedEvent {
	return RecordedEvent{
		SaleID:       r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		SellingPrice: r.SellingPrice,
		Remaining:    remaining,
		OccurredAt:   time.Now().UTC(),
	}
}
