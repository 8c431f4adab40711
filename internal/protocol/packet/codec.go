package packet

import (
	"fmt"

	"slinger/internal/crypto"
	"slinger/internal/domain"
	"slinger/internal/protocol/bundle"
	"slinger/internal/util/memzero"
)

// LookupFunc resolves a sender key id to the bundle imported for it.
type LookupFunc func(domain.KeyID) (domain.PublicKeyBundle, bool, error)

// UnlockFunc loans the local Encryption private key. Parse wipes the returned
// bytes as soon as the packet key is unwrapped.
type UnlockFunc func() ([]byte, error)

// BuildInput is everything Build needs to seal one payload for a recipient.
type BuildInput struct {
	domain.Payload

	SenderKeyID domain.KeyID
	Recipient   domain.PublicKeyBundle
	// SigningKey is the sender's PKCS#8 signing key. Build borrows it and
	// leaves wiping to the caller.
	SigningKey []byte
	// AESKeySize selects the packet key size; zero means crypto.AESKeySize.
	AESKeySize int
}

// Build seals in.Payload for in.Recipient and returns the encoded packet.
func Build(in BuildInput) ([]byte, error) {
	env, err := encodeEnvelope(in.Payload)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(env)

	size := in.AESKeySize
	if size == 0 {
		size = crypto.AESKeySize
	}
	key, err := crypto.GenerateAESKey(size)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	ct, err := crypto.EncryptAES(env, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt envelope: %w", err)
	}

	bits, err := crypto.RSAPublicKeyBits(in.Recipient.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("recipient encryption key: %w", err)
	}
	wrapped, err := crypto.EncryptRSA(in.Recipient.EncryptionKey, bits, key)
	if err != nil {
		return nil, fmt.Errorf("wrap packet key: %w", err)
	}

	sig, err := crypto.SignRSA(in.SigningKey, env)
	if err != nil {
		return nil, fmt.Errorf("sign envelope: %w", err)
	}

	return Encode(domain.Packet{
		SenderKeyID: in.SenderKeyID,
		WrappedKey:  wrapped,
		Signature:   sig,
		Ciphertext:  ct,
	})
}

// Parse decodes, decrypts and verifies a packet.
//
// Structure is checked before any cryptography runs, and the decrypted
// envelope is decoded only after the signature over it verifies. On every
// failure the decrypted envelope is wiped and nothing but the error is
// returned.
func Parse(data []byte, lookup LookupFunc, unlock UnlockFunc) (domain.Opened, error) {
	pkt, err := Decode(data)
	if err != nil {
		return domain.Opened{}, err
	}

	sender, ok, err := lookup(pkt.SenderKeyID)
	if err != nil {
		return domain.Opened{}, fmt.Errorf("lookup sender %s: %w", pkt.SenderKeyID, err)
	}
	if !ok {
		return domain.Opened{}, fmt.Errorf("%w: %s", domain.ErrUnknownSender, pkt.SenderKeyID)
	}
	if !sender.KeyID.Equal(pkt.SenderKeyID) || bundle.VerifyKeyID(sender) != nil {
		return domain.Opened{}, fmt.Errorf("%w: stored bundle for %s is inconsistent", domain.ErrUnknownSender, pkt.SenderKeyID)
	}

	key, err := unwrapKey(pkt.WrappedKey, unlock)
	if err != nil {
		return domain.Opened{}, err
	}
	defer memzero.Zero(key)

	env, err := crypto.OpenAES(pkt.Ciphertext, key)
	if err != nil {
		return domain.Opened{}, fmt.Errorf("open envelope: %w", domain.ErrDecryption)
	}
	defer memzero.Zero(env)

	// Nothing in env is parsed until the sender's signature covers it.
	bits, err := crypto.RSAPublicKeyBits(sender.SigningKey)
	if err != nil {
		return domain.Opened{}, fmt.Errorf("%w: sender signing key: %v", domain.ErrSignatureVerification, err)
	}
	if !crypto.VerifyRSA(sender.SigningKey, bits, pkt.Signature, env) {
		return domain.Opened{}, domain.ErrSignatureVerification
	}

	payload, plainLen, err := decodeEnvelope(env)
	if err != nil {
		return domain.Opened{}, err
	}
	if uint64(plainLen) != uint64(len(env)) {
		memzero.Zero(payload.Attachment)
		return domain.Opened{}, fmt.Errorf("%w: envelope length %d, recorded %d", domain.ErrDecryption, len(env), plainLen)
	}

	return domain.Opened{SenderKeyID: pkt.SenderKeyID, Payload: payload}, nil
}

func unwrapKey(wrapped []byte, unlock UnlockFunc) ([]byte, error) {
	priv, err := unlock()
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(priv)

	key, err := crypto.DecryptRSA(priv, wrapped)
	if err != nil {
		return nil, fmt.Errorf("unwrap packet key: %w", domain.ErrDecryption)
	}
	if !crypto.ValidAESKeySize(len(key)) {
		memzero.Zero(key)
		return nil, fmt.Errorf("unwrap packet key: %w", domain.ErrDecryption)
	}
	return key, nil
}
