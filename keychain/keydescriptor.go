// Package keychain names the static per-channel keys a node derives from
// its own wallet: the funding multisig key and the four revocation,
// payment, delay, and HTLC basepoints. Naming mirrors the BIP43-style
// key-family scheme the wider lnd ecosystem uses to keep these keys
// deterministically derivable without persisting private material.
package keychain

import "github.com/btcsuite/btcd/btcec/v2"

// KeyFamily is a BIP43-style purpose tag identifying what a derived key is
// used for.
type KeyFamily uint32

const (
	// KeyFamilyMultiSig is the family for a channel's 2-of-2 funding
	// key.
	KeyFamilyMultiSig KeyFamily = 0

	// KeyFamilyRevocationBase is the family for the revocation
	// basepoint.
	KeyFamilyRevocationBase KeyFamily = 1

	// KeyFamilyHtlcBase is the family for the HTLC basepoint.
	KeyFamilyHtlcBase KeyFamily = 2

	// KeyFamilyPaymentBase is the family for the payment basepoint.
	KeyFamilyPaymentBase KeyFamily = 3

	// KeyFamilyDelayBase is the family for the delayed-payment
	// basepoint.
	KeyFamilyDelayBase KeyFamily = 4

	// KeyFamilyRevocationRoot is the family for the seed that the
	// per-commitment secret chain is derived from.
	KeyFamilyRevocationRoot KeyFamily = 5
)

// KeyLocator is a partial description of a key, enough to re-derive it from
// the owning wallet without storing the private key itself.
type KeyLocator struct {
	// Family is the key family this key belongs to.
	Family KeyFamily

	// Index is this key's index within its family.
	Index uint32
}

// KeyDescriptor holds the information required to locate and use a key
// without storing its private part: a locator plus (once known) the public
// key it resolves to.
type KeyDescriptor struct {
	KeyLocator

	// PubKey is the fully derived public key.
	PubKey *btcec.PublicKey
}
