package identity_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/platform/metrics"
	"slinger/internal/services/directory"
	"slinger/internal/services/identity"
	"slinger/internal/services/vault"
	"slinger/internal/store"
)

const pass = "correct horse battery"

type fixture struct {
	svc   *identity.Service
	vault *vault.Vault
	store *store.MemoryStore
	dir   *directory.Directory
	m     *metrics.Metrics
}

func newFixture(t *testing.T, ks *store.MemoryStore) fixture {
	t.Helper()
	if ks == nil {
		ks = store.NewMemoryStore()
	}
	v, err := vault.New(ks, crypto.KDFParams{Name: crypto.KDFArgon2id, Time: 1, MemoryKB: 64, Threads: 1})
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.New(prometheus.NewRegistry())
	clock := func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 500, time.UTC) }
	return fixture{
		svc:   identity.New(ks, v, identity.WithMetrics(m), identity.WithClock(clock)),
		vault: v,
		store: ks,
		dir:   directory.New(ks),
		m:     m,
	}
}

func TestEnsureIdentity_CreatesBothRoles(t *testing.T) {
	f := newFixture(t, nil)
	b, err := f.svc.EnsureIdentity(2048, pass)
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}

	if ok, _ := f.vault.Exists(); !ok {
		t.Fatal("vault does not hold both roles")
	}
	if !b.KeyID.Equal(crypto.IdentityKeyID(b.EncryptionKey, b.SigningKey)) {
		t.Fatal("bundle key id is not the identity fingerprint")
	}
	if !b.CreatedAt.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("CreatedAt = %v", b.CreatedAt)
	}
	for _, role := range domain.Roles() {
		priv, err := f.vault.Unlock(pass, role)
		if err != nil {
			t.Fatalf("unlock %s: %v", role, err)
		}
		pub, _, err := crypto.RSAPublicKeyFromPrivate(priv)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := f.dir.PublicKey(role)
		if string(pub) != string(want) {
			t.Fatalf("%s private key does not match its public record", role)
		}
		if got := testutil.ToFloat64(f.m.IdentityGenerated.WithLabelValues(role.String())); got != 1 {
			t.Errorf("identity_generated_total{role=%s} = %v", role, got)
		}
	}
}

func TestEnsureIdentity_SecondCallAlreadyExists(t *testing.T) {
	f := newFixture(t, nil)
	first, err := f.svc.EnsureIdentity(2048, pass)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.EnsureIdentity(2048, pass); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second call err = %v, want ErrAlreadyExists", err)
	}
	id, err := f.dir.KeyID()
	if err != nil {
		t.Fatal(err)
	}
	if !id.Equal(first.KeyID) {
		t.Fatal("key id changed across the failed second call")
	}
}

func TestEnsureIdentity_Validation(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.svc.EnsureIdentity(1024, pass); !errors.Is(err, domain.ErrUnsupportedKeySize) {
		t.Errorf("1024 bits err = %v, want ErrUnsupportedKeySize", err)
	}
	for _, weak := range []string{"", "short", "        ", "seven77"} {
		if _, err := f.svc.EnsureIdentity(2048, weak); !errors.Is(err, domain.ErrWeakPassphrase) {
			t.Errorf("passphrase %q err = %v, want ErrWeakPassphrase", weak, err)
		}
	}
	if ok, _ := f.vault.HasRole(domain.Encryption); ok {
		t.Fatal("rejected call stored a key")
	}
}

func TestEnsureIdentity_ResumesInterruptedBootstrap(t *testing.T) {
	f := newFixture(t, nil)

	// Leave only a locked encryption key behind, with no public record.
	pub, priv, err := crypto.GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.vault.Lock(pass, priv, domain.Encryption); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.EnsureIdentity(2048, "another passphrase"); !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("wrong passphrase err = %v, want ErrInvalidPassphrase", err)
	}
	if ok, _ := f.vault.HasRole(domain.Signing); ok {
		t.Fatal("signing key generated despite wrong passphrase")
	}

	b, err := f.svc.EnsureIdentity(2048, pass)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if string(b.EncryptionKey) != string(pub) {
		t.Fatal("existing encryption key was replaced")
	}
	if got := testutil.ToFloat64(f.m.IdentityGenerated.WithLabelValues("encryption")); got != 0 {
		t.Errorf("encryption regenerated %v times", got)
	}
	if got := testutil.ToFloat64(f.m.IdentityGenerated.WithLabelValues("signing")); got != 1 {
		t.Errorf("signing generated %v times, want 1", got)
	}
}

func TestEnsureIdentity_ConcurrentBootstrapHasOneWinner(t *testing.T) {
	ks := store.NewMemoryStore()
	a, b := newFixture(t, ks), newFixture(t, ks)

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	for i, f := range []fixture{a, b} {
		wg.Add(1)
		go func(i int, f fixture) {
			defer wg.Done()
			_, errs[i] = f.svc.EnsureIdentity(2048, pass)
		}(i, f)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case !errors.Is(err, domain.ErrAlreadyExists):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("%d bootstraps succeeded, want 1", won)
	}
	if _, err := a.dir.Bundle(); err != nil {
		t.Fatalf("identity inconsistent after race: %v", err)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t, nil)
	first, err := f.svc.EnsureIdentity(2048, pass)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Reset("wrong passphrase"); !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("reset with wrong passphrase err = %v", err)
	}
	if ok, _ := f.vault.Exists(); !ok {
		t.Fatal("failed reset removed keys")
	}

	if err := f.svc.Reset(pass); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.dir.KeyID(); !errors.Is(err, domain.ErrCorruptedKeyStore) {
		t.Fatalf("directory after reset err = %v, want ErrCorruptedKeyStore", err)
	}
	if err := f.svc.Reset("anything at all"); err != nil {
		t.Fatalf("reset of empty identity: %v", err)
	}

	second, err := f.svc.EnsureIdentity(2048, "a new passphrase")
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if second.KeyID.Equal(first.KeyID) {
		t.Fatal("recreated identity reused old keys")
	}
}

func TestOpen(t *testing.T) {
	f := newFixture(t, nil)
	st, err := f.svc.Open(2048, pass)
	if err != nil {
		t.Fatalf("open (bootstrap): %v", err)
	}
	if !st.Created() {
		t.Fatal("first Open did not report creation")
	}

	again, err := f.svc.Open(2048, pass)
	if err != nil {
		t.Fatalf("open (load): %v", err)
	}
	if again.Created() || !again.KeyID().Equal(st.KeyID()) {
		t.Fatal("second Open did not load the same identity")
	}
	if !again.Bundle().Equal(st.Bundle()) {
		t.Fatal("bundles differ between opens")
	}

	if _, err := f.svc.Open(2048, "not the passphrase"); !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("open with wrong passphrase err = %v", err)
	}

	priv, err := again.Unlock(pass, domain.Signing)
	if err != nil || len(priv) == 0 {
		t.Fatalf("unlock through handle: %v", err)
	}
}

func TestChangePassphrase(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.svc.ChangePassphrase(pass, "a brand new passphrase"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("change without identity err = %v", err)
	}
	if _, err := f.svc.EnsureIdentity(2048, pass); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.ChangePassphrase(pass, "short"); !errors.Is(err, domain.ErrWeakPassphrase) {
		t.Fatalf("weak new passphrase err = %v", err)
	}
	if err := f.svc.ChangePassphrase("wrong passphrase", "a brand new passphrase"); !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("wrong old passphrase err = %v", err)
	}

	const next = "a brand new passphrase"
	if err := f.svc.ChangePassphrase(pass, next); err != nil {
		t.Fatalf("ChangePassphrase: %v", err)
	}
	for _, role := range domain.Roles() {
		if f.vault.VerifyPassphrase(pass, role) {
			t.Fatalf("%s still opens with the old passphrase", role)
		}
		if !f.vault.VerifyPassphrase(next, role) {
			t.Fatalf("%s does not open with the new passphrase", role)
		}
	}
}

func TestChangePassphrase_RollsBackOnPartialFailure(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.svc.EnsureIdentity(2048, pass); err != nil {
		t.Fatal(err)
	}
	// Leave the signing key under a different passphrase so the second
	// rewrap fails.
	if err := f.vault.Rewrap(pass, "signing only passphrase", domain.Signing); err != nil {
		t.Fatal(err)
	}

	err := f.svc.ChangePassphrase(pass, "a brand new passphrase")
	if !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("err = %v, want ErrInvalidPassphrase", err)
	}
	if !f.vault.VerifyPassphrase(pass, domain.Encryption) {
		t.Fatal("encryption key was not rolled back")
	}
	if f.vault.VerifyPassphrase("a brand new passphrase", domain.Encryption) {
		t.Fatal("encryption key kept the new passphrase")
	}
}

func TestOpen_RebuildsRecordLostAfterLock(t *testing.T) {
	for _, role := range domain.Roles() {
		t.Run(role.String(), func(t *testing.T) {
			f := newFixture(t, nil)
			want, err := f.svc.EnsureIdentity(2048, pass)
			if err != nil {
				t.Fatal(err)
			}
			// Both keys are locked but one public record never landed.
			if err := f.store.Delete(directory.RecordPath(role)); err != nil {
				t.Fatal(err)
			}
			if _, err := f.dir.Bundle(); !errors.Is(err, domain.ErrCorruptedKeyStore) {
				t.Fatalf("Bundle with lost record err = %v", err)
			}

			if _, err := f.svc.Open(2048, "not the passphrase"); !errors.Is(err, domain.ErrInvalidPassphrase) {
				t.Fatalf("open with wrong passphrase err = %v", err)
			}
			st, err := f.svc.Open(2048, pass)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if st.Created() {
				t.Fatal("Open generated a new identity")
			}
			if !st.Bundle().Equal(want) {
				t.Fatal("rebuilt bundle differs from the original")
			}
			if _, err := f.store.Get(directory.RecordPath(role)); err != nil {
				t.Fatalf("record not rewritten: %v", err)
			}
		})
	}
}

func TestThrottledUnlockIsReported(t *testing.T) {
	ks := store.NewMemoryStore()
	v, err := vault.New(ks, crypto.KDFParams{Name: crypto.KDFArgon2id, Time: 1, MemoryKB: 64, Threads: 1},
		vault.WithLimiter(rate.NewLimiter(0, 1)))
	if err != nil {
		t.Fatal(err)
	}
	svc := identity.New(ks, v)
	if _, err := svc.EnsureIdentity(2048, pass); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Open(2048, pass); err != nil {
		t.Fatalf("first Open: %v", err)
	}

	if _, err := svc.Open(2048, pass); !errors.Is(err, domain.ErrUnlockThrottled) {
		t.Fatalf("throttled Open err = %v, want ErrUnlockThrottled", err)
	}
	if err := svc.Reset(pass); !errors.Is(err, domain.ErrUnlockThrottled) {
		t.Fatalf("throttled Reset err = %v, want ErrUnlockThrottled", err)
	}
	if ok, _ := v.Exists(); !ok {
		t.Fatal("throttled Reset removed keys")
	}
}
