package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/platform/logging"
	"slinger/internal/platform/metrics"
	"slinger/internal/services/directory"
	"slinger/internal/util/memzero"
)

const (
	// DefaultMinPassphraseLength is used when no minimum is configured.
	DefaultMinPassphraseLength = 8
)

// Service manages identity key creation using a key store and a vault.
type Service struct {
	store   domain.KeyStore
	vault   domain.CredentialVault
	dir     *directory.Directory
	minPass int
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithMinPassphraseLength sets the shortest passphrase EnsureIdentity accepts.
func WithMinPassphraseLength(n int) Option { return func(s *Service) { s.minPass = n } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock overrides time.Now for key creation timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New returns an identity service storing records in store and private keys
// in vault.
func New(store domain.KeyStore, vault domain.CredentialVault, opts ...Option) *Service {
	s := &Service{
		store:   store,
		vault:   vault,
		dir:     directory.New(store),
		minPass: DefaultMinPassphraseLength,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrDiscard(s.log)
	return s
}

// EnsureIdentity generates whichever identity key pairs are missing and
// returns the resulting public key bundle.
//
// If both roles exist it fails with domain.ErrAlreadyExists and leaves the
// stored keys untouched. If exactly one exists, left behind by an
// interrupted bootstrap, passphrase must unlock it and only the other role
// is generated.
func (s *Service) EnsureIdentity(bits int, passphrase string) (domain.PublicKeyBundle, error) {
	if !crypto.ValidRSABits(bits) {
		return domain.PublicKeyBundle{}, fmt.Errorf("%w: %d bits", domain.ErrUnsupportedKeySize, bits)
	}
	if !s.isSecurePassphrase(passphrase) {
		return domain.PublicKeyBundle{}, fmt.Errorf("%w: need at least %d characters", domain.ErrWeakPassphrase, s.minPass)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var missing, present []domain.Role
	for _, role := range domain.Roles() {
		ok, err := s.vault.HasRole(role)
		if err != nil {
			return domain.PublicKeyBundle{}, err
		}
		if ok {
			present = append(present, role)
		} else {
			missing = append(missing, role)
		}
	}
	if len(missing) == 0 {
		return domain.PublicKeyBundle{}, fmt.Errorf("identity: %w", domain.ErrAlreadyExists)
	}
	for _, role := range present {
		if err := s.resume(role, passphrase); err != nil {
			return domain.PublicKeyBundle{}, err
		}
	}

	created := s.now().UTC().Truncate(time.Second)
	for _, role := range missing {
		if err := s.generate(role, bits, passphrase, created); err != nil {
			return domain.PublicKeyBundle{}, err
		}
	}

	b, err := s.dir.Bundle()
	if err != nil {
		return domain.PublicKeyBundle{}, err
	}
	s.log.Info("identity ready", "key_id", b.KeyID.String(), "bits", bits, "generated", len(missing))
	return b, nil
}

// generate creates the key pair for role, locks the private half and writes
// the public record. The vault write is create-only, so a concurrent
// bootstrap that got there first makes this fail with
// domain.ErrAlreadyExists instead of replacing its key.
func (s *Service) generate(role domain.Role, bits int, passphrase string, created time.Time) error {
	pub, priv, err := crypto.GenerateRSAKeyPair(bits)
	if err != nil {
		return err
	}
	kp := domain.KeyPair{
		Role:       role,
		PublicKey:  pub,
		PrivateKey: priv,
		Bits:       bits,
		KeyID:      crypto.KeyID(pub),
		CreatedAt:  created,
	}
	defer memzero.Zero(kp.PrivateKey)

	if err := s.vault.Lock(passphrase, kp.PrivateKey, role); err != nil {
		return err
	}
	if err := s.writeRecord(kp.Record()); err != nil {
		return err
	}
	s.metrics.KeyGenerated(role.String())
	s.log.Debug("key pair generated", "role", role.String(), "key_id", kp.KeyID.String())
	return nil
}

// resume checks passphrase against an already locked role and rebuilds its
// public record if the bootstrap stopped before writing it.
func (s *Service) resume(role domain.Role, passphrase string) error {
	priv, err := s.vault.Unlock(passphrase, role)
	if err != nil {
		return err
	}
	defer memzero.Zero(priv)

	if _, err := s.dir.Record(role); err == nil {
		return nil
	}
	pub, bits, err := crypto.RSAPublicKeyFromPrivate(priv)
	if err != nil {
		return fmt.Errorf("%w: %s key: %v", domain.ErrCorruptedKeyStore, role, err)
	}
	s.log.Warn("rebuilding missing public record", "role", role.String())
	return s.writeRecord(domain.KeyRecord{
		Role:      role,
		PublicKey: pub,
		Bits:      bits,
		KeyID:     crypto.KeyID(pub),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	})
}

func (s *Service) writeRecord(rec domain.KeyRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return s.store.Put(directory.RecordPath(rec.Role), data)
}

// ChangePassphrase rewraps both private keys under newPassphrase. If the
// second rewrap fails the first is rolled back.
func (s *Service) ChangePassphrase(oldPassphrase, newPassphrase string) error {
	if !s.isSecurePassphrase(newPassphrase) {
		return fmt.Errorf("%w: need at least %d characters", domain.ErrWeakPassphrase, s.minPass)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.vault.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("change passphrase: %w", domain.ErrNotFound)
	}

	var done []domain.Role
	for _, role := range domain.Roles() {
		if err := s.vault.Rewrap(oldPassphrase, newPassphrase, role); err != nil {
			for _, r := range done {
				if rbErr := s.vault.Rewrap(newPassphrase, oldPassphrase, r); rbErr != nil {
					err = errors.Join(err, fmt.Errorf("roll back %s: %w", r, rbErr))
				}
			}
			return err
		}
		done = append(done, role)
	}
	s.log.Info("passphrase changed")
	return nil
}

// Reset removes the identity. passphrase must unlock the encryption key, or
// the signing key if only that one is left. Resetting when no identity
// exists is a no-op.
func (s *Service) Reset(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	checked := false
	for _, role := range domain.Roles() {
		ok, err := s.vault.HasRole(role)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		key, err := s.vault.Unlock(passphrase, role)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		memzero.Zero(key)
		checked = true
		break
	}

	var errs []error
	for _, role := range domain.Roles() {
		errs = append(errs, s.vault.Erase(role), s.store.Delete(directory.RecordPath(role)))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if checked {
		s.log.Info("identity reset")
	}
	return nil
}

// isSecurePassphrase enforces the minimum length, counted in characters,
// and rejects passphrases that are only whitespace.
func (s *Service) isSecurePassphrase(passphrase string) bool {
	if strings.TrimSpace(passphrase) == "" {
		return false
	}
	return utf8.RuneCountInString(passphrase) >= s.minPass
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
