// Package memory implements the repository ports over an owned, id-keyed
// in-memory arena. Every cross-entity reference is held by id, never by
// embedded pointer, which keeps the graph acyclic and makes snapshotting a
// straight copy of the arenas.
//
// A single RWMutex guards the whole store. Mutations run in one critical
// section each, so multi-row writes (journal posting, bulk reconciled-flag
// updates) are atomic to every reader. Reads work on copies; internal
// pointers never escape.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
)

// snapshotVersion is bumped when the snapshot layout changes.
const snapshotVersion = 1

// Ledger is the owning store for accounts, transactions, journals and
// reconciliation sessions. The *Order slices preserve insertion order, which
// backs the stable date-tie ordering required for deterministic running
// balances.
type Ledger struct {
	mu sync.RWMutex

	accounts     map[string]*domain.Account
	accountOrder []string

	transactions map[string]*domain.Transaction
	txOrder      []string

	journals     map[string]*domain.Journal
	journalOrder []string

	sessions     map[string]*domain.ReconciliationSession
	sessionOrder []string

	nextSeq uint64
}

// NewLedger creates an empty store.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string]*domain.Transaction),
		journals:     make(map[string]*domain.Journal),
		sessions:     make(map[string]*domain.ReconciliationSession),
		nextSeq:      1,
	}
}

// Interface guards.
var (
	_ portsrepo.AccountRepositoryFacade        = (*Ledger)(nil)
	_ portsrepo.TransactionRepositoryFacade    = (*Ledger)(nil)
	_ portsrepo.JournalRepositoryFacade        = (*Ledger)(nil)
	_ portsrepo.ReconciliationRepositoryFacade = (*Ledger)(nil)
	_ portsrepo.Snapshotter                    = (*Ledger)(nil)
)

// Snapshot returns a deep copy of the entire ledger state.
func (l *Ledger) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := domain.Snapshot{
		Meta: domain.SnapshotMeta{
			Version:   snapshotVersion,
			Timestamp: time.Now().UTC(),
		},
		Accounts:     make([]domain.Account, 0, len(l.accountOrder)),
		Transactions: make([]domain.Transaction, 0, len(l.txOrder)),
		Journals:     make([]domain.Journal, 0, len(l.journalOrder)),
		Sessions:     make([]domain.ReconciliationSession, 0, len(l.sessionOrder)),
		NextSeq:      l.nextSeq,
	}
	for _, id := range l.accountOrder {
		snap.Accounts = append(snap.Accounts, *l.accounts[id])
	}
	for _, id := range l.txOrder {
		snap.Transactions = append(snap.Transactions, *l.transactions[id])
	}
	for _, id := range l.journalOrder {
		j := *l.journals[id]
		j.Lines = append([]domain.JournalLine(nil), l.journals[id].Lines...)
		snap.Journals = append(snap.Journals, j)
	}
	for _, id := range l.sessionOrder {
		s := *l.sessions[id]
		s.CandidateIDs = append([]string(nil), l.sessions[id].CandidateIDs...)
		s.SelectedIDs = append([]string(nil), l.sessions[id].SelectedIDs...)
		snap.Sessions = append(snap.Sessions, s)
	}
	return snap, nil
}

// Restore replaces the entire ledger state with the snapshot's contents.
func (l *Ledger) Restore(ctx context.Context, snap domain.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[string]*domain.Account, len(snap.Accounts))
	l.accountOrder = make([]string, 0, len(snap.Accounts))
	for i := range snap.Accounts {
		acc := snap.Accounts[i]
		l.accounts[acc.AccountID] = &acc
		l.accountOrder = append(l.accountOrder, acc.AccountID)
	}

	l.transactions = make(map[string]*domain.Transaction, len(snap.Transactions))
	l.txOrder = make([]string, 0, len(snap.Transactions))
	for i := range snap.Transactions {
		txn := snap.Transactions[i]
		l.transactions[txn.TransactionID] = &txn
		l.txOrder = append(l.txOrder, txn.TransactionID)
	}

	l.journals = make(map[string]*domain.Journal, len(snap.Journals))
	l.journalOrder = make([]string, 0, len(snap.Journals))
	for i := range snap.Journals {
		j := snap.Journals[i]
		j.Lines = append([]domain.JournalLine(nil), j.Lines...)
		l.journals[j.JournalID] = &j
		l.journalOrder = append(l.journalOrder, j.JournalID)
	}

	l.sessions = make(map[string]*domain.ReconciliationSession, len(snap.Sessions))
	l.sessionOrder = make([]string, 0, len(snap.Sessions))
	for i := range snap.Sessions {
		s := snap.Sessions[i]
		s.CandidateIDs = append([]string(nil), s.CandidateIDs...)
		s.SelectedIDs = append([]string(nil), s.SelectedIDs...)
		l.sessions[s.SessionID] = &s
		l.sessionOrder = append(l.sessionOrder, s.SessionID)
	}

	l.nextSeq = snap.NextSeq
	if l.nextSeq == 0 {
		l.nextSeq = 1
	}
	return nil
}

// sortTransactionsStable orders transactions by date, ties broken by
// insertion sequence. The ordering is total, which running balances rely on.
func sortTransactionsStable(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].Seq < txns[j].Seq
	})
}
