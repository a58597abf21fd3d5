package keygen

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

const (
	// SeedSize is the number of random bytes hashed into a private key candidate.
	SeedSize = 32
	// PrivateKeySize is the secp256k1 scalar size in bytes.
	PrivateKeySize = 32
	// PublicKeySize is the uncompressed point size with the format prefix stripped.
	PublicKeySize = 64

	// maxResampleAttempts bounds the invalid-scalar retry loop. A single hit has
	// probability ~2^-128; more than one in a row means the entropy source is broken.
	maxResampleAttempts = 8
)

var (
	// ErrEntropySource indicates the CSPRNG could not supply seed bytes. Fatal.
	ErrEntropySource = errors.New("keygen: entropy source failure")
	// ErrInvalidScalar indicates the candidate is zero or not below the curve order.
	ErrInvalidScalar = errors.New("keygen: invalid secp256k1 scalar")
	// ErrSeedSize indicates a seed of the wrong length.
	ErrSeedSize = errors.New("keygen: seed must be exactly 32 bytes")
)

// Key is a derived secp256k1 key pair together with its Ethereum address.
// PublicKey holds the uncompressed X||Y encoding without the 0x04 prefix byte.
type Key struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  []byte
	Address    common.Address
}

// PrivateKeyBytes returns the 32-byte big-endian scalar.
func (k *Key) PrivateKeyBytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

// PrivateKeyHex returns the scalar as 64 lowercase hex characters.
func (k *Key) PrivateKeyHex() string {
	return fmt.Sprintf("%x", k.PrivateKeyBytes())
}

// PublicKeyHex returns the 64-byte public key encoding as lowercase hex.
func (k *Key) PublicKeyHex() string {
	return fmt.Sprintf("%x", k.PublicKey)
}

// AddressHex returns the address as 0x-prefixed lowercase hex.
// common.Address.Hex would apply the EIP-55 mixed-case checksum instead.
func (k *Key) AddressHex() string {
	return fmt.Sprintf("0x%x", k.Address)
}

// DeriveKey maps a 32-byte seed to a key pair and address:
// the private key is Keccak-256 of the seed, the public key is the
// uncompressed curve point d*G minus its prefix byte, and the address is
// the rightmost 20 bytes of Keccak-256 over that 64-byte encoding.
// Returns ErrInvalidScalar when the hash lands outside [1, N-1].
func DeriveKey(seed []byte) (*Key, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w, got %d", ErrSeedSize, len(seed))
	}
	return ParsePrivateKey(crypto.Keccak256(seed))
}

// ParsePrivateKey builds a Key from raw 32-byte scalar material,
// rejecting scalars outside [1, N-1].
func ParsePrivateKey(b []byte) (*Key, error) {
	priv, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}

	// 65-byte uncompressed encoding; drop the 0x04 format byte.
	pub := crypto.FromECDSAPub(&priv.PublicKey)[1:]
	addr := common.BytesToAddress(crypto.Keccak256(pub)[12:])

	return &Key{
		PrivateKey: priv,
		PublicKey:  pub,
		Address:    addr,
	}, nil
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	// Rand supplies seed entropy. Must be a CSPRNG; defaults to crypto/rand.
	Rand io.Reader
	// Metrics is optional; nil disables instrumentation.
	Metrics *Metrics
	Logger  zerolog.Logger
}

// Generator produces fresh key pairs from a cryptographically secure
// random source. Safe for concurrent use as long as its reader is.
type Generator struct {
	rand    io.Reader
	metrics *Metrics
	log     zerolog.Logger
}

// NewGenerator constructs a Generator, defaulting to crypto/rand entropy.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	return &Generator{
		rand:    cfg.Rand,
		metrics: cfg.Metrics,
		log:     cfg.Logger.With().Str("component", "keygen").Logger(),
	}
}

// Generate draws a fresh 32-byte seed and derives a key pair from it.
// An invalid scalar is resampled with new entropy; entropy failures are fatal.
func (g *Generator) Generate() (*Key, error) {
	seed := make([]byte, SeedSize)
	start := time.Now()

	for attempt := 0; attempt < maxResampleAttempts; attempt++ {
		if _, err := io.ReadFull(g.rand, seed); err != nil {
			g.recordError("entropy")
			return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
		}

		key, err := DeriveKey(seed)
		if err == nil {
			g.recordGenerated(start)
			return key, nil
		}
		if !errors.Is(err, ErrInvalidScalar) {
			g.recordError("curve")
			return nil, err
		}

		g.recordError("invalid_scalar")
		g.log.Warn().Int("attempt", attempt+1).Msg("seed hashed to invalid scalar, resampling")
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrInvalidScalar, maxResampleAttempts)
}

func (g *Generator) recordGenerated(start time.Time) {
	if g.metrics != nil {
		g.metrics.RecordGenerated()
		g.metrics.RecordDuration(time.Since(start))
	}
}

func (g *Generator) recordError(kind string) {
	if g.metrics != nil {
		g.metrics.RecordError(kind)
	}
}
