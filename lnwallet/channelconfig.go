// Package lnwallet builds the Bitcoin transactions a channel's commitment
// state implies: the commitment transaction itself and the second-level
// HTLC-timeout/HTLC-success transactions it spends from, plus the
// signing and verification plumbing those transactions need.
package lnwallet

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/keychain"
	"github.com/lnchannels/commitcore/lnwire"
)

// ChannelConstraints are the bounds a party imposes on its counterparty's
// use of the channel, negotiated at channel open and enforced by every
// operation that would grow the pending-HTLC set.
type ChannelConstraints struct {
	// DustLimit is the output value, in satoshis, below which an output
	// would cost more to spend than it is worth and is instead folded
	// into the miner fee.
	DustLimit uint64

	// ChanReserve is the minimum balance, in satoshis, this party
	// requires its counterparty keep on its own side of the channel at
	// all times.
	ChanReserve uint64

	// MaxPendingAmount is the maximum aggregate value, in millisatoshi,
	// this party will allow in offered-but-unresolved HTLCs at once.
	MaxPendingAmount lnwire.MilliSatoshi

	// MinHTLC is the smallest HTLC value this party will accept.
	MinHTLC lnwire.MilliSatoshi

	// MaxAcceptedHtlcs is the maximum number of offered-but-unresolved
	// HTLCs this party will allow on its commitment at once.
	MaxAcceptedHtlcs uint16
}

// ChannelConfig bundles one party's channel parameters: the basepoints its
// per-commitment keys are tweaked from, and the constraints it enforces on
// its counterparty.
type ChannelConfig struct {
	// MultiSigKey is this party's key for the funding 2-of-2 output.
	MultiSigKey keychain.KeyDescriptor

	// RevocationBasePoint is tweaked by the counterparty's
	// per-commitment point to derive the revocation key this party can
	// claim if the counterparty republishes a revoked commitment.
	RevocationBasePoint keychain.KeyDescriptor

	// PaymentBasePoint is tweaked by the counterparty's per-commitment
	// point to derive the to_remote key on the counterparty's
	// commitment.
	PaymentBasePoint keychain.KeyDescriptor

	// DelayBasePoint is tweaked by this party's own per-commitment point
	// to derive the to_local delayed-payment key on its own commitment.
	DelayBasePoint keychain.KeyDescriptor

	// HtlcBasePoint is tweaked by the relevant per-commitment point to
	// derive the HTLC keys used in offered/received HTLC scripts.
	HtlcBasePoint keychain.KeyDescriptor

	// CsvDelay is the number of blocks this party's to_local output must
	// be delayed on its own commitment transactions.
	CsvDelay uint16

	ChannelConstraints
}

// CommitInput describes the channel's sole funding output: the outpoint
// both commitment transactions spend, its value, and the 2-of-2 redeem
// script that secures it.
type CommitInput struct {
	// FundingOutpoint is the funding transaction output both commitment
	// transactions spend as their single input.
	FundingOutpoint wire.OutPoint

	// RedeemScript is the 2-of-2 multisig witness script the funding
	// output pays to.
	RedeemScript []byte

	// Value is the funding output's value in satoshis - the channel's
	// total capacity.
	Value uint64
}
