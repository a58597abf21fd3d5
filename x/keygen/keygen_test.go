package keygen

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference vectors captured from an independent implementation of the
// same derivation (Keccak-256 + secp256k1).
const (
	refSeedHex    = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	refPrivHex    = "8ae1aa597fa146ebd3aa2ceddf360668dea5e526567e92b0321816a4e895bd2d"
	refPubHex     = "d0d3e3d2a3390d00a9f76c05246f2e82180fa3fb0f42398a0b658d1cd4ebcbd17041c61f368a8858bcd2f190ff83622d3c3839a4db2b5b6a8471f12d79beecf0"
	refAddrHex    = "0x958a93829bb26d0ee83615b6044b96598eb2f061"
	flippedPriv   = "6770c65f51814f5bfd2f1bd8e793c1e3066852e9e00c693b3c0a0d5d02a32f6f"
	refPriv2Hex   = "0e5a351a9c7191e96082d996538a06127c94bad9fdcb10ac319e9a2810fb503a"
	refPub2Hex    = "37b45f972f547577f45883e928accd318f91dec4e8ed9de3640557e2dbf9e3c4ff0ed6135400b377319e410e76eebc30d58fd7489452f14002ad52e214025765"
	refAddr2Hex   = "0x432f50fd0076d5fc2aa6bbb546e77f2bac2aa4c2"
	secp256k1NHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDeriveKeyReferenceVector(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey(mustHex(t, refSeedHex))
	require.NoError(t, err)

	assert.Equal(t, refPrivHex, key.PrivateKeyHex())
	assert.Equal(t, refPubHex, key.PublicKeyHex())
	assert.Equal(t, refAddrHex, key.AddressHex())
}

func TestDeriveKeyDeterministic(t *testing.T) {
	t.Parallel()

	seed := mustHex(t, refSeedHex)

	a, err := DeriveKey(seed)
	require.NoError(t, err)
	b, err := DeriveKey(seed)
	require.NoError(t, err)

	assert.Equal(t, a.PrivateKeyBytes(), b.PrivateKeyBytes())
	assert.Equal(t, a.PublicKey, b.PublicKey)
	assert.Equal(t, a.Address, b.Address)
}

func TestDeriveKeySizes(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey(mustHex(t, refSeedHex))
	require.NoError(t, err)

	assert.Len(t, key.PrivateKeyBytes(), PrivateKeySize)
	assert.Len(t, key.PublicKey, PublicKeySize)
	assert.Len(t, key.Address, 20)
}

func TestDeriveKeySeedAvalanche(t *testing.T) {
	t.Parallel()

	seed := mustHex(t, refSeedHex)
	seed[0] ^= 0x01

	key, err := DeriveKey(seed)
	require.NoError(t, err)

	// A single flipped seed bit yields an unrelated private key.
	assert.Equal(t, flippedPriv, key.PrivateKeyHex())
	assert.NotEqual(t, refPrivHex, key.PrivateKeyHex())
}

func TestDeriveKeyRejectsBadSeedLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := DeriveKey(make([]byte, n))
		require.ErrorIs(t, err, ErrSeedSize, "seed length %d", n)
	}
}

func TestParsePrivateKeyVector(t *testing.T) {
	t.Parallel()

	key, err := ParsePrivateKey(mustHex(t, refPriv2Hex))
	require.NoError(t, err)

	assert.Equal(t, refPriv2Hex, key.PrivateKeyHex())
	assert.Equal(t, refPub2Hex, key.PublicKeyHex())
	assert.Equal(t, refAddr2Hex, key.AddressHex())
}

func TestParsePrivateKeyRejectsInvalidScalars(t *testing.T) {
	t.Parallel()

	// Zero and >= curve order are not valid secp256k1 scalars.
	_, err := ParsePrivateKey(make([]byte, PrivateKeySize))
	require.ErrorIs(t, err, ErrInvalidScalar)

	_, err = ParsePrivateKey(mustHex(t, secp256k1NHex))
	require.ErrorIs(t, err, ErrInvalidScalar)
}

func TestKeyPublicKeyOnCurve(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey(mustHex(t, refSeedHex))
	require.NoError(t, err)

	pub := key.PrivateKey.PublicKey
	assert.True(t, crypto.S256().IsOnCurve(pub.X, pub.Y))

	// Re-deriving from the scalar reproduces the stored encoding.
	again, err := ParsePrivateKey(key.PrivateKeyBytes())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey, again.PublicKey)
	assert.Equal(t, key.Address, again.Address)
}

func TestGeneratorDeterministicReader(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(GeneratorConfig{
		Rand:   bytes.NewReader(mustHex(t, refSeedHex)),
		Logger: zerolog.Nop(),
	})

	key, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, refAddrHex, key.AddressHex())

	// Reader exhausted, entropy failure is fatal.
	_, err = gen.Generate()
	require.ErrorIs(t, err, ErrEntropySource)
}

func TestGeneratorEntropyFailure(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(GeneratorConfig{
		Rand:   failingReader{},
		Logger: zerolog.Nop(),
	})

	_, err := gen.Generate()
	require.ErrorIs(t, err, ErrEntropySource)
}

func TestGeneratorUniqueKeys(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(GeneratorConfig{Logger: zerolog.Nop()})

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		key, err := gen.Generate()
		require.NoError(t, err)
		require.False(t, seen[key.AddressHex()], "duplicate address generated")
		seen[key.AddressHex()] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy available")
}
