package vault

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/platform/logging"
	"slinger/internal/platform/metrics"
	"slinger/internal/util/memzero"
)

var errInvalidRole = errors.New("invalid key role")

// Vault implements domain.CredentialVault over a domain.KeyStore.
type Vault struct {
	store   domain.KeyStore
	params  crypto.KDFParams
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Option configures optional Vault collaborators.
type Option func(*Vault)

// WithLimiter throttles Unlock; attempts over the limit fail with
// domain.ErrUnlockThrottled without running the KDF.
func WithLimiter(l *rate.Limiter) Option { return func(v *Vault) { v.limiter = l } }

// WithMetrics reports unlock results to m.
func WithMetrics(m *metrics.Metrics) Option { return func(v *Vault) { v.metrics = m } }

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option { return func(v *Vault) { v.log = l } }

// New returns a vault that wraps new keys with params.
func New(store domain.KeyStore, params crypto.KDFParams, opts ...Option) (*Vault, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	v := &Vault{store: store, params: params}
	for _, opt := range opts {
		opt(v)
	}
	v.log = logging.OrDiscard(v.log)
	return v, nil
}

// Path returns the key-store path of the wrapped key for role.
func Path(role domain.Role) string { return "keys/" + role.String() + ".key.enc" }

// Exists reports whether wrapped keys for both roles are present.
func (v *Vault) Exists() (bool, error) {
	for _, role := range domain.Roles() {
		ok, err := v.HasRole(role)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// HasRole reports whether a wrapped key for role is present.
func (v *Vault) HasRole(role domain.Role) (bool, error) {
	if !role.Valid() {
		return false, errInvalidRole
	}
	_, err := v.store.Get(Path(role))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Lock wraps plaintextKey under passphrase and stores it for role.
//
// The write is create-only: if a key for role is already stored, Lock fails
// with domain.ErrAlreadyExists and the stored key is left untouched.
func (v *Vault) Lock(passphrase string, plaintextKey []byte, role domain.Role) error {
	if !role.Valid() {
		return errInvalidRole
	}
	if passphrase == "" {
		return fmt.Errorf("%w: empty passphrase", domain.ErrInvalidPassphrase)
	}
	data, err := seal(passphrase, plaintextKey, role, v.params)
	if err != nil {
		return err
	}
	if err := v.store.Create(Path(role), data); err != nil {
		return fmt.Errorf("lock %s key: %w", role, err)
	}
	v.log.Debug("private key locked", "role", role.String(), "kdf", v.params.Name)
	return nil
}

// Unlock returns the private key for role. The caller owns the returned
// bytes and must wipe them with memzero.Zero when done.
func (v *Vault) Unlock(passphrase string, role domain.Role) ([]byte, error) {
	if !role.Valid() {
		return nil, errInvalidRole
	}
	if v.limiter != nil && !v.limiter.Allow() {
		v.metrics.Unlock(metrics.UnlockThrottled)
		v.log.Warn("unlock throttled", "role", role.String())
		return nil, domain.ErrUnlockThrottled
	}

	data, err := v.store.Get(Path(role))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v.metrics.Unlock(metrics.UnlockNotFound)
		}
		return nil, fmt.Errorf("unlock %s key: %w", role, err)
	}
	key, err := unseal(passphrase, data, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPassphrase):
			v.metrics.Unlock(metrics.UnlockInvalidPassphrase)
		case errors.Is(err, domain.ErrCorruptedKeyStore):
			v.metrics.Unlock(metrics.UnlockCorrupted)
			v.log.Error("wrapped key unreadable", "role", role.String(), "err", err)
		}
		return nil, fmt.Errorf("unlock %s key: %w", role, err)
	}
	v.metrics.Unlock(metrics.UnlockOK)
	return key, nil
}

// VerifyPassphrase reports whether passphrase unlocks the key for role.
//
// When no key is stored the KDF still runs once on a random salt so a
// missing entry costs about as long as a wrong passphrase.
func (v *Vault) VerifyPassphrase(passphrase string, role domain.Role) bool {
	key, err := v.Unlock(passphrase, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v.decoy(passphrase)
		}
		return false
	}
	memzero.Zero(key)
	return true
}

// Rewrap re-encrypts the key for role under newPassphrase.
func (v *Vault) Rewrap(oldPassphrase, newPassphrase string, role domain.Role) error {
	if newPassphrase == "" {
		return fmt.Errorf("%w: empty passphrase", domain.ErrInvalidPassphrase)
	}
	key, err := v.Unlock(oldPassphrase, role)
	if err != nil {
		return err
	}
	defer memzero.Zero(key)

	data, err := seal(newPassphrase, key, role, v.params)
	if err != nil {
		return err
	}
	if err := v.store.Put(Path(role), data); err != nil {
		return fmt.Errorf("rewrap %s key: %w", role, err)
	}
	v.log.Info("private key rewrapped", "role", role.String())
	return nil
}

// Erase deletes the wrapped key for role.
func (v *Vault) Erase(role domain.Role) error {
	if !role.Valid() {
		return errInvalidRole
	}
	if err := v.store.Delete(Path(role)); err != nil {
		return fmt.Errorf("erase %s key: %w", role, err)
	}
	v.log.Info("private key erased", "role", role.String())
	return nil
}

func (v *Vault) decoy(passphrase string) {
	salt := make([]byte, crypto.SaltBytes)
	_, _ = rand.Read(salt)
	if kek, err := crypto.DeriveKEK(passphrase, salt, v.params); err == nil {
		memzero.Zero(kek)
	}
}

// Compile-time assertion that Vault implements domain.CredentialVault.
var _ domain.CredentialVault = (*Vault)(nil)
