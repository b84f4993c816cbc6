package lnwallet

import (
	"fmt"

	ecdsaBtcec "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ToWireFormat converts a DER-encoded ECDSA signature into the fixed
// 64-byte r||s encoding the wire messages carry, left-padding each
// half to 32 bytes.
func ToWireFormat(derSig []byte) ([64]byte, error) {
	var out [64]byte

	sig, err := ecdsaBtcec.ParseDERSignature(derSig)
	if err != nil {
		return out, fmt.Errorf("lnwallet: unable to parse signature: %w", err)
	}

	rBytes := sig.R().Bytes()
	sBytes := sig.S().Bytes()

	copy(out[0:32], rBytes[:])
	copy(out[32:64], sBytes[:])

	return out, nil
}

// FromWireFormat reconstructs a DER-encoded ECDSA signature from its fixed
// 64-byte r||s wire encoding, so it can be handed to txscript's signature
// verification helpers.
func FromWireFormat(wireSig [64]byte) []byte {
	var r, s secp256k1.ModNScalar
	r.SetByteSlice(wireSig[:32])
	s.SetByteSlice(wireSig[32:])

	sig := ecdsaBtcec.NewSignature(&r, &s)
	return sig.Serialize()
}
