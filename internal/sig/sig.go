// Package sig implements the binding signature of §4.10: a standard
// ECDSA-class scheme over secp256k1 — a curve independent of the
// BLS12-381 pairing curve — used by the Data Owner to tie a batch's time
// commitment and its list of data commitments into one inseparable
// object. The signed message is SHA-256 over the canonical serialisation
// C_time‖C_data_list[0]‖…‖C_data_list[d-1]; the signature bytes
// themselves are, unmodified, the accumulator's blacklist item.
package sig

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

// ErrMalformedSignature is returned when signature bytes fail to parse,
// distinguishing a structurally-broken signature from one that parses but
// does not verify.
var ErrMalformedSignature = fmt.Errorf("sig: malformed signature encoding")

// PrivateKey is the Data Owner's signing key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey is the corresponding verification key vk_DO.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GenerateKey samples a fresh (PrivateKey, PublicKey) pair.
func GenerateKey() (PrivateKey, PublicKey, error) {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return PrivateKey{}, PublicKey{}, fmt.Errorf("sig: key generation: %w", err)
	}
	return PrivateKey{key: k}, PublicKey{key: k.PubKey()}, nil
}

// PublicKey returns the verification key for sk.
func (sk PrivateKey) PublicKey() PublicKey {
	return PublicKey{key: sk.key.PubKey()}
}

// BindingMessage builds the exact byte sequence that is signed: SHA-256
// over the canonical encoding of C_time followed by every C_data in
// order. Both the Data Owner and any verifier MUST build this identically
// — using anything but the canonical per-element encoding lets an
// attacker construct a second (C_time, C_data_list) pair that hashes to
// the same digest under a sloppier encoding.
func BindingMessage(cTime pairing.G2, cData []pairing.G1) [32]byte {
	buf := make([]byte, 0, pairing.G2Size+len(cData)*pairing.G1Size)
	buf = append(buf, pairing.MarshalG2(cTime)...)
	for _, c := range cData {
		buf = append(buf, pairing.MarshalG1(c)...)
	}
	return sha256.Sum256(buf)
}

// Sign produces sigma = Sign_sk(BindingMessage(cTime, cData)), returning
// its canonical DER-encoded bytes (the form re-used, unmodified, as the
// accumulator's blacklist item — spec.md §4.8, "the accumulator item fed
// to H is exactly the signature bytes").
func Sign(sk PrivateKey, cTime pairing.G2, cData []pairing.G1) []byte {
	digest := BindingMessage(cTime, cData)
	signature := ecdsa.Sign(sk.key, digest[:])
	return signature.Serialize()
}

// Verify checks sigma over (cTime, cData) under vk.
func Verify(vk PublicKey, cTime pairing.G2, cData []pairing.G1, sigma []byte) (bool, error) {
	signature, err := ecdsa.ParseDERSignature(sigma)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	digest := BindingMessage(cTime, cData)
	return signature.Verify(digest[:], vk.key), nil
}

// MarshalPublicKey encodes vk in SEC1 compressed form.
func MarshalPublicKey(vk PublicKey) []byte {
	return vk.key.SerializeCompressed()
}

// UnmarshalPublicKey decodes a SEC1 compressed public key.
func UnmarshalPublicKey(data []byte) (PublicKey, error) {
	k, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return PublicKey{}, fmt.Errorf("sig: invalid public key encoding: %w", err)
	}
	return PublicKey{key: k}, nil
}
