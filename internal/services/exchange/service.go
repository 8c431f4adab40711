package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/platform/logging"
	"slinger/internal/platform/metrics"
	"slinger/internal/protocol/bundle"
	"slinger/internal/protocol/packet"
	"slinger/internal/util/memzero"
)

// Service implements domain.ExchangeService.
type Service struct {
	vault      domain.CredentialVault
	dir        domain.KeyDirectory
	peers      domain.PeerStore
	aesKeySize int
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithAESKeySize sets the packet key size in bytes.
func WithAESKeySize(n int) Option { return func(s *Service) { s.aesKeySize = n } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// New constructs an exchange Service.
func New(
	vault domain.CredentialVault,
	dir domain.KeyDirectory,
	peers domain.PeerStore,
	opts ...Option,
) *Service {
	s := &Service{
		vault:      vault,
		dir:        dir,
		peers:      peers,
		aesKeySize: crypto.AESKeySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrDiscard(s.log)
	return s
}

// Seal builds a packet carrying req.Payload for req.Recipient, who must have
// been imported with ImportPeer.
func (s *Service) Seal(ctx context.Context, passphrase string, req domain.SealRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recipient, ok, err := s.peers.LoadPeerBundle(req.Recipient)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("recipient %s: %w", req.Recipient, domain.ErrNotFound)
	}
	sender, err := s.dir.KeyID()
	if err != nil {
		return nil, err
	}

	signingKey, err := s.vault.Unlock(passphrase, domain.Signing)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(signingKey)

	out, err := packet.Build(packet.BuildInput{
		Payload:     req.Payload,
		SenderKeyID: sender,
		Recipient:   recipient,
		SigningKey:  signingKey,
		AESKeySize:  s.aesKeySize,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.PacketBuilt()
	s.log.InfoContext(ctx, "packet sealed",
		"recipient", recipient.KeyID.String(),
		"size", len(out),
		"attachment", req.AttachmentName != "",
	)
	return out, nil
}

// Open parses a packet from an imported peer, unlocking the local
// encryption key with passphrase.
func (s *Service) Open(ctx context.Context, passphrase string, data []byte) (domain.Opened, error) {
	if err := ctx.Err(); err != nil {
		return domain.Opened{}, err
	}
	opened, err := packet.Parse(data, s.peers.LoadPeerBundle, func() ([]byte, error) {
		return s.vault.Unlock(passphrase, domain.Encryption)
	})
	s.metrics.PacketParsed(parseResult(err))
	if err != nil {
		s.log.WarnContext(ctx, "packet rejected", "err", err)
		return domain.Opened{}, err
	}
	s.log.InfoContext(ctx, "packet opened", "sender", opened.SenderKeyID.String())
	return opened, nil
}

// ImportPeer unpacks a peer's bundle, checks it and stores it.
func (s *Service) ImportPeer(ctx context.Context, packed []byte) (domain.PublicKeyBundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.PublicKeyBundle{}, err
	}
	b, err := bundle.Unpack(packed)
	if err != nil {
		return domain.PublicKeyBundle{}, err
	}
	if err := bundle.VerifyKeyID(b); err != nil {
		return domain.PublicKeyBundle{}, err
	}
	for _, key := range [][]byte{b.EncryptionKey, b.SigningKey} {
		bits, err := crypto.RSAPublicKeyBits(key)
		if err != nil {
			return domain.PublicKeyBundle{}, err
		}
		if !crypto.ValidRSABits(bits) {
			return domain.PublicKeyBundle{}, fmt.Errorf("%w: %d-bit key", domain.ErrInvalidPublicKey, bits)
		}
	}
	if err := s.peers.SavePeerBundle(b); err != nil {
		return domain.PublicKeyBundle{}, err
	}
	s.log.InfoContext(ctx, "peer imported", "peer", b.KeyID.String())
	return b, nil
}

// Peers lists the imported peer bundles.
func (s *Service) Peers() ([]domain.PublicKeyBundle, error) {
	return s.peers.ListPeerBundles()
}

func parseResult(err error) string {
	switch {
	case err == nil:
		return metrics.ParseOK
	case errors.Is(err, domain.ErrMalformedPacket):
		return metrics.ParseMalformed
	case errors.Is(err, domain.ErrUnknownSender):
		return metrics.ParseUnknownSender
	case errors.Is(err, domain.ErrDecryption):
		return metrics.ParseDecryption
	case errors.Is(err, domain.ErrSignatureVerification):
		return metrics.ParseSignature
	default:
		return metrics.ParseError
	}
}

// Compile-time assertion that Service implements domain.ExchangeService.
var _ domain.ExchangeService = (*Service)(nil)
