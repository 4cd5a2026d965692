package store

import (
	"sync"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// Ledger records settled payments. Records are append-only and deduplicated
// on payment mandate id: resubmitting an already settled PaymentMandate
// returns the original confirmation instead of charging twice.
type Ledger interface {
	// Record stores a confirmation. If one already exists for the same
	// payment mandate id, the existing confirmation is returned and the
	// second is discarded.
	Record(conf *mandate.PaymentConfirmation) (*mandate.PaymentConfirmation, bool)

	// ByTransaction returns the confirmation for a transaction id.
	ByTransaction(txnID string) (*mandate.PaymentConfirmation, bool)

	// ByPaymentMandate returns the confirmation settled for a payment
	// mandate id, if any.
	ByPaymentMandate(mandateID string) (*mandate.PaymentConfirmation, bool)

	// List returns every confirmation in settlement order.
	List() []*mandate.PaymentConfirmation
}

// MemoryLedger is a map-backed Ledger.
type MemoryLedger struct {
	mu        sync.RWMutex
	byTxn     map[string]*mandate.PaymentConfirmation
	byMandate map[string]*mandate.PaymentConfirmation
	order     []*mandate.PaymentConfirmation
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byTxn:     make(map[string]*mandate.PaymentConfirmation),
		byMandate: make(map[string]*mandate.PaymentConfirmation),
	}
}

// Record implements Ledger. The returned bool is true when conf was stored,
// false when a prior settlement for the same payment mandate won.
func (l *MemoryLedger) Record(conf *mandate.PaymentConfirmation) (*mandate.PaymentConfirmation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.byMandate[conf.PaymentMandateID]; ok {
		return existing, false
	}
	l.byTxn[conf.TransactionID] = conf
	l.byMandate[conf.PaymentMandateID] = conf
	l.order = append(l.order, conf)
	return conf, true
}

func (l *MemoryLedger) ByTransaction(txnID string) (*mandate.PaymentConfirmation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	conf, ok := l.byTxn[txnID]
	return conf, ok
}

func (l *MemoryLedger) ByPaymentMandate(mandateID string) (*mandate.PaymentConfirmation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	conf, ok := l.byMandate[mandateID]
	return conf, ok
}

func (l *MemoryLedger) List() []*mandate.PaymentConfirmation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*mandate.PaymentConfirmation, len(l.order))
	copy(out, l.order)
	return out
}
