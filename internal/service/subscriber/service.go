package subscriber

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/ignite/listkeeper/internal/domain"
	"github.com/ignite/listkeeper/internal/pkg/logger"
)

// Service owns the in-memory subscriber index and persists it through the
// Repository after every mutation. A single mutex serializes each
// mutate-plus-save pair so concurrent HTTP requests cannot lose updates on
// the read-modify-write of the index or on the full-file overwrite.
type Service struct {
	repo Repository

	mu   sync.Mutex
	subs map[string]*domain.Subscriber

	now func() time.Time // injectable for tests
}

// NewService creates the manager and loads the current collection from the
// record store.
func NewService(ctx context.Context, repo Repository) *Service {
	return &Service{
		repo: repo,
		subs: repo.Load(ctx),
		now:  time.Now,
	}
}

// Register validates and canonicalizes the address, enforces uniqueness,
// and inserts a new pending record with a fresh verification token. The
// created record is returned as a copy.
//
// Fails with ErrInvalidEmail for a malformed address and ErrDuplicate when
// the canonicalized address is already registered. A storage failure after
// a valid mutation is absorbed: the in-memory record stands and the call
// still succeeds.
func (s *Service) Register(ctx context.Context, email string, metadata map[string]any) (*domain.Subscriber, error) {
	norm, err := NormalizeEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subs[norm]; exists {
		return nil, ErrDuplicate
	}

	now := s.now()
	sub := &domain.Subscriber{
		Email:             norm,
		JoinedDate:        now,
		Status:            domain.StatusPending,
		VerificationToken: newToken(norm, now),
		Verified:          false,
		LastUpdated:       now,
		Metadata:          metadata,
	}
	if sub.Metadata == nil {
		sub.Metadata = map[string]any{}
	}

	s.subs[norm] = sub
	s.persist(ctx)

	logger.Info("subscriber registered", "email", norm, "total", len(s.subs))
	return sub.Clone(), nil
}

// Verify redeems a verification token. The token is matched by exact
// equality against every current record; no match fails with
// ErrInvalidToken. On match the record becomes verified and active.
//
// Re-submitting an already-redeemed token succeeds again idempotently:
// verifying an already-verified address has no adverse effect, so the
// no-op re-save is deliberate.
func (s *Service) Verify(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.VerificationToken != token {
			continue
		}

		sub.Verified = true
		sub.Status = domain.StatusActive
		sub.LastUpdated = s.now()
		s.persist(ctx)

		logger.Info("subscriber verified", "email", sub.Email)
		return nil
	}

	return ErrInvalidToken
}

// Stats is the aggregate report over the current index.
type Stats struct {
	Total       int       `json:"total"`
	Active      int       `json:"active"`
	Unverified  int       `json:"unverified"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Stats computes the report over a consistent snapshot of the index. Pure
// read; nothing is persisted.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Total:       len(s.subs),
		GeneratedAt: s.now(),
	}
	for _, sub := range s.subs {
		if sub.Status == domain.StatusActive {
			st.Active++
		}
		if !sub.Verified {
			st.Unverified++
		}
	}
	return st
}

// Flush persists the current index. Called on shutdown so a save that
// failed mid-run gets one more chance before the process exits.
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(ctx)
}

// persist writes the full index through the record store. Failure is
// deliberately absorbed: the in-memory mutation already happened and stays
// visible to subsequent calls, so durability is best-effort here rather
// than transactional.
func (s *Service) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.subs); err != nil {
		logger.Error("failed to persist subscriber collection",
			"count", len(s.subs), "error", err)
	}
}

// newToken derives the opaque verification token from the canonical email
// and the creation instant. Collisions across records are astronomically
// unlikely but not checked for.
func newToken(email string, now time.Time) string {
	sum := sha256.Sum256([]byte(email + now.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
