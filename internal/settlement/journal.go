package settlement

import (
	"context"
	"log"
)

// Entry records a reconciliation step that could not be applied (or was
// deliberately skipped) so an operator or a later pass can retry it.
type Entry struct {
	PaymentID     string
	ReservationID string
	SlotID        string
	Action        string
	Reason        string
}

// Journal receives entries for failed or skipped cascade steps. The
// webhook response never depends on journal outcome.
type Journal interface {
	Record(ctx context.Context, e Entry)
}

// LogJournal writes entries to the process log. It is the default journal;
// deployments that want durable replay can provide their own.
type LogJournal struct{}

func (LogJournal) Record(_ context.Context, e Entry) {
	log.Printf("reconciliation pending: action=%s payment=%s reserva=%s slot=%s reason=%s",
		e.Action, e.PaymentID, e.ReservationID, e.SlotID, e.Reason)
}
