package payment

import "time"

// RecordedEvent is emitted after a payment record and its quota
// propagation have been applied.
type RecordedEvent struct {
	PaymentID  string
	Email      string
	Plan       string
	Amount     float64
	Quota      int
	OccurredAt time.Time
}

func (RecordedEvent) EventName() string { return "payment.recorded" }

func NewRecordedEvent(r *Record, quota int) RecordedEvent {
	return RecordedEvent{
		PaymentID:  r.ID,
		Email:      r.Email,
		Plan:       r.Plan,
		Amount:     r.Amount,
		Quota:      quota,
		OccurredAt: time.Now().UTC(),
	}
}
