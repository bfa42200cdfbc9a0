package auth

import (
	"context"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// BunRevocationLedger is the durable revocation set. Entries live until the
// revoked token would have expired anyway; stale rows are purged lazily on
// write so no background sweeper is required.
type BunRevocationLedger struct {
	db bun.IDB
}

var _ RevocationLedger = (*BunRevocationLedger)(nil)

// NewRevocationLedger creates a bun backed ledger
func NewRevocationLedger(db bun.IDB) *BunRevocationLedger {
	return &BunRevocationLedger{db: db}
}

// Revoke marks a refresh token id as no longer honorable. The conflict
// target on jti makes the insert the serialization point: exactly one of
// any set of concurrent callers sees a fresh insert.
func (l *BunRevocationLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	// purge entries past their TTL first so a stale row cannot absorb
	// the insert
	if _, err := l.db.NewDelete().
		Model((*RevokedToken)(nil)).
		Where("expires_at <= ?", time.Now()).
		Exec(ctx); err != nil {
		return false, err
	}

	record := &RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}

	res, err := l.db.NewInsert().
		Model(record).
		On("CONFLICT (jti) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

// IsRevoked reports whether the jti sits in the ledger. Entries past their
// TTL count as not revoked; the token is already unusable on expiry grounds.
func (l *BunRevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return l.db.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("?TableAlias.jti = ?", jti).
		Where("?TableAlias.expires_at > ?", time.Now()).
		Exists(ctx)
}

// MemoryRevocationLedger is an in-process ledger for tests and embedded
// setups. Same TTL semantics as the bun ledger.
type MemoryRevocationLedger struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

var _ RevocationLedger = (*MemoryRevocationLedger)(nil)

// NewMemoryRevocationLedger creates an empty in-memory ledger
func NewMemoryRevocationLedger() *MemoryRevocationLedger {
	return &MemoryRevocationLedger{
		entries: make(map[string]time.Time),
	}
}

// Revoke marks a refresh token id as no longer honorable. The presence
// check and the insert share the write lock, so exactly one of any set of
// concurrent callers sees a fresh insert.
func (l *MemoryRevocationLedger) Revoke(_ context.Context, jti string, expiresAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}

	if _, ok := l.entries[jti]; ok {
		return false, nil
	}

	l.entries[jti] = expiresAt
	return true, nil
}

// IsRevoked reports whether the jti sits in the ledger
func (l *MemoryRevocationLedger) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	exp, ok := l.entries[jti]
	if !ok {
		return false, nil
	}

	return exp.After(time.Now()), nil
}
