// Package lnchannel implements a channel's commitment state as a pure
// value type: every operation takes a Commitments and returns a new one
// plus whatever message (if any) the caller must now send to its peer.
// Nothing here touches a network connection, a wallet, or a database -
// those are the concern of whatever actor owns a Commitments value.
package lnchannel

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lnchannels/commitcore/input"
	"github.com/lnchannels/commitcore/lnwallet"
	"github.com/lnchannels/commitcore/lnwire"
	"github.com/lnchannels/commitcore/shachain"
)

// LocalCommit describes the local party's latest signed commitment: its
// commitment number, the balance/HTLC spec it reflects, and the
// transactions it would broadcast to force-close with this state.
type LocalCommit struct {
	Index          uint64
	Spec           lnwallet.CommitmentSpec
	PublishableTxs *lnwallet.PublishableTxs
}

// RemoteCommit describes the remote party's latest commitment as seen from
// the local side: its commitment number, the spec it reflects, the txid
// the local party signed, and the per-commitment point the remote party
// used to build it.
type RemoteCommit struct {
	Index                    uint64
	Spec                     lnwallet.CommitmentSpec
	Txid                     chainhash.Hash
	RemotePerCommitmentPoint *btcec.PublicKey
}

// RemoteCommitInfo records what the local party knows about the *next*
// remote commitment beyond the latest one: either a new commitment has
// been signed and is AwaitingRevocation of the one before it, or a next
// per-commitment point is Ready and waiting to be used the next time the
// local party signs.
//
// Go has no native sum type, so exhaustiveness here is enforced with an
// unexported marker method: every variant must live in this package, and
// every switch over a RemoteCommitInfo should end in a panicking default
// so a forgotten case fails loudly instead of silently falling through.
type RemoteCommitInfo interface {
	isRemoteCommitInfo()
}

// AwaitingRevocation means the local party has sent a new commitment
// signature for the remote party and is waiting for it to revoke its
// prior commitment before signing again.
type AwaitingRevocation struct {
	// Commit is the commitment just signed, not yet revoked by the
	// remote party.
	Commit RemoteCommit

	// LocalChanges is a record of exactly which local changes were
	// signed into Commit - the same list SendCommit moves into
	// LocalChanges.Signed, which is what ReceiveRevocation acks.
	LocalChanges []lnwire.Message
}

func (AwaitingRevocation) isRemoteCommitInfo() {}

// Ready means the remote party's most recent commitment has been revoked
// and NextPerCommitmentPoint is available to build the next one with.
type Ready struct {
	NextPerCommitmentPoint *btcec.PublicKey
}

func (Ready) isRemoteCommitInfo() {}

// Commitments is the complete, immutable state of one side of a channel's
// commitment chain: the channel's static parameters, the latest signed
// commitments on both sides, every change proposed-but-not-yet-committed,
// and the revocation bookkeeping needed to punish a broken promise.
//
// Every exported method on Commitments returns a new value rather than
// mutating the receiver; callers that need to persist state transitions
// replace their stored Commitments wholesale after each successful call.
type Commitments struct {
	ChannelID lnwire.ChannelID

	LocalParams  lnwallet.ChannelConfig
	RemoteParams lnwallet.ChannelConfig

	CommitInput lnwallet.CommitInput

	LocalCommit  LocalCommit
	RemoteCommit RemoteCommit

	LocalChanges  LocalChanges
	RemoteChanges RemoteChanges

	// LocalCurrentHtlcId is the highest HTLC ID this party has assigned
	// to an HTLC it offers; the next one assigned is this plus one.
	LocalCurrentHtlcId uint64

	// RemoteNextCommitInfo tracks what the local party knows about the
	// remote commitment chain beyond RemoteCommit.
	RemoteNextCommitInfo RemoteCommitInfo

	// RemotePerCommitmentSecrets accumulates the per-commitment secrets
	// the remote party reveals as it revokes its local commitments,
	// compressed per shachain's storage scheme - needed to reconstruct
	// a revocation key if the remote party ever republishes an old
	// state.
	RemotePerCommitmentSecrets *shachain.Store

	// LocalCommitSecretProducer derives the per-commitment secrets this
	// party hands to the remote party as it revokes its own local
	// commitments.
	LocalCommitSecretProducer *shachain.Producer

	Signer input.Signer
}

// pendingSpec recomputes the balances and live HTLC set that would result
// from folding every change either side has sent - acked, signed, or still
// only proposed - on top of the latest local commitment.
func (c Commitments) pendingSpec() (lnwallet.CommitmentSpec, error) {
	local := append(append([]lnwire.Message(nil), c.LocalChanges.Acked...), c.LocalChanges.Signed...)
	local = append(local, c.LocalChanges.Proposed...)

	remote := append(append([]lnwire.Message(nil), c.RemoteChanges.Acked...), c.RemoteChanges.Proposed...)

	return lnwallet.Reduce(c.LocalCommit.Spec, local, remote)
}

// clone returns a shallow copy of c for mutation into a new Commitments
// value. Slices that an operation appends to are re-sliced fresh so the
// original's backing array is never shared across the two values.
func (c Commitments) clone() Commitments {
	out := c

	out.LocalChanges.Proposed = append([]lnwire.Message(nil), c.LocalChanges.Proposed...)
	out.LocalChanges.Signed = append([]lnwire.Message(nil), c.LocalChanges.Signed...)
	out.LocalChanges.Acked = append([]lnwire.Message(nil), c.LocalChanges.Acked...)

	out.RemoteChanges.Proposed = append([]lnwire.Message(nil), c.RemoteChanges.Proposed...)
	out.RemoteChanges.Acked = append([]lnwire.Message(nil), c.RemoteChanges.Acked...)

	return out
}
