package input

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/keychain"
)

// Script is the set of witness/script-sig elements needed to redeem a
// previous output, returned by a Signer that knows how to fully construct
// an input script rather than just produce a raw signature.
type Script struct {
	Witness   [][]byte
	SigScript []byte
}

// SignDescriptor houses the information a Signer needs to produce a
// signature for one input of a transaction, without the Signer needing to
// know anything about *why* that input is being spent the way it is.
type SignDescriptor struct {
	// KeyDesc locates the private key to sign with.
	KeyDesc keychain.KeyDescriptor

	// SingleTweak, if non-nil, is applied to KeyDesc's private key via
	// TweakPrivKey before signing - used for to_local/to_remote and
	// HTLC outputs tied to a specific per-commitment point.
	SingleTweak []byte

	// DoubleTweak, if non-nil, is the per-commitment secret used to
	// derive a revocation private key via DeriveRevocationPrivKey -
	// used only when sweeping a revoked commitment.
	DoubleTweak *btcec.PrivateKey

	// WitnessScript is the script being satisfied.
	WitnessScript []byte

	// Output is the previous output being spent.
	Output *wire.TxOut

	// HashType is the signature hash flag to use.
	HashType txscript.SigHashType

	// SigHashes caches the midstate hashes used across all inputs of a
	// segwit transaction.
	SigHashes *txscript.TxSigHashes

	// InputIndex is the index of the input being signed within the
	// spending transaction.
	InputIndex int
}

// Signer produces signatures and input scripts over transaction inputs
// without exposing private key material to the caller.
type Signer interface {
	// SignOutputRaw signs the indicated input of tx and returns a DER
	// signature with the trailing sighash byte stripped.
	SignOutputRaw(tx *wire.MsgTx, signDesc *SignDescriptor) ([]byte, error)

	// ComputeInputScript derives the complete witness/scriptSig needed
	// to redeem the input described by signDesc.
	ComputeInputScript(tx *wire.MsgTx, signDesc *SignDescriptor) (*Script, error)
}

// deriveSignKey resolves the private key a SignDescriptor refers to, given
// the wallet's base private key and the descriptor's tweak (if any).
func deriveSignKey(basePriv *btcec.PrivateKey, signDesc *SignDescriptor) *btcec.PrivateKey {
	switch {
	case signDesc.SingleTweak != nil:
		return TweakPrivKey(basePriv, signDesc.SingleTweak)
	case signDesc.DoubleTweak != nil:
		return DeriveRevocationPrivKey(basePriv, signDesc.DoubleTweak)
	default:
		return basePriv
	}
}
