package app

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"slinger/internal/domain"
	"slinger/internal/platform/logging"
	"slinger/internal/platform/metrics"
	"slinger/internal/services/directory"
	"slinger/internal/services/exchange"
	"slinger/internal/services/identity"
	"slinger/internal/services/vault"
	"slinger/internal/store"
)

// Wire bundles all stores and services for the CLI.
type Wire struct {
	Config    Config
	Keys      domain.KeyStore
	Peers     domain.PeerStore
	Vault     *vault.Vault
	Identity  *identity.Service
	Directory *directory.Directory
	Exchange  *exchange.Service
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Log       *slog.Logger
}

// NewWire constructs the dependency graph from cfg. A nil logger discards.
func NewWire(cfg Config, log *slog.Logger) (*Wire, error) {
	log = logging.OrDiscard(log)
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	// File-based stores
	keys := store.NewBlobFileStore(cfg.Home)
	peers := store.NewPeerFileStore(filepath.Join(cfg.Home, "peers"))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var limiter *rate.Limiter
	if cfg.Unlock.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Unlock.RatePerMinute/60), cfg.Unlock.Burst)
	}
	v, err := vault.New(keys, cfg.KDF,
		vault.WithLimiter(limiter),
		vault.WithMetrics(m),
		vault.WithLogger(log.With("component", "vault")),
	)
	if err != nil {
		return nil, err
	}

	// High-level services
	dir := directory.New(keys)
	ids := identity.New(keys, v,
		identity.WithMinPassphraseLength(cfg.MinPassphraseLength),
		identity.WithMetrics(m),
		identity.WithLogger(log.With("component", "identity")),
	)
	ex := exchange.New(v, dir, peers,
		exchange.WithAESKeySize(cfg.AESKeyBytes),
		exchange.WithMetrics(m),
		exchange.WithLogger(log.With("component", "exchange")),
	)

	return &Wire{
		Config:    cfg,
		Keys:      keys,
		Peers:     peers,
		Vault:     v,
		Identity:  ids,
		Directory: dir,
		Exchange:  ex,
		Registry:  reg,
		Metrics:   m,
		Log:       log,
	}, nil
}
