package lnchannel

import "fmt"

// Sentinel errors returned by the Commitments operations. Each names a
// specific protocol violation or state-machine precondition that failed,
// so callers can distinguish a caller bug from a misbehaving peer.
var (
	// ErrInsufficientFunds is returned by SendAdd when offering an HTLC
	// would push the sender's balance below zero or below the
	// counterparty's required channel reserve.
	ErrInsufficientFunds = fmt.Errorf("lnchannel: insufficient funds to add htlc")

	// ErrUnknownHtlc is returned by SendFulfill, ReceiveFulfill,
	// SendFail, or ReceiveFail when no live HTLC matches the given ID.
	ErrUnknownHtlc = fmt.Errorf("lnchannel: reference to unknown htlc id")

	// ErrInvalidPreimage is returned by SendFulfill when the supplied
	// preimage does not hash to the HTLC's payment hash.
	ErrInvalidPreimage = fmt.Errorf("lnchannel: preimage does not match htlc payment hash")

	// ErrCannotSignNoChanges is returned by SendCommit when there is
	// nothing new to commit to since the last signed commitment.
	ErrCannotSignNoChanges = fmt.Errorf("lnchannel: no changes to sign")

	// ErrCannotSignAwaitingRevoke is returned by SendCommit when the
	// prior remote commitment has not yet been revoked.
	ErrCannotSignAwaitingRevoke = fmt.Errorf("lnchannel: cannot sign, awaiting revocation of prior commitment")

	// ErrInvalidCommitSignature is returned by ReceiveCommit when the
	// commitment signature supplied by the peer does not verify.
	ErrInvalidCommitSignature = fmt.Errorf("lnchannel: invalid commitment signature")

	// ErrInvalidHtlcSignature is returned by ReceiveCommit when an HTLC
	// signature supplied by the peer does not verify.
	ErrInvalidHtlcSignature = fmt.Errorf("lnchannel: invalid htlc signature")

	// ErrHtlcSigCountMismatch is returned by ReceiveCommit when the
	// number of HTLC signatures supplied does not match the number of
	// non-dust HTLCs on the new commitment.
	ErrHtlcSigCountMismatch = fmt.Errorf("lnchannel: htlc signature count mismatch")

	// ErrInvalidRevocation is returned by ReceiveRevocation when the
	// revealed per-commitment secret does not correspond to the
	// commitment point previously used for that commitment.
	ErrInvalidRevocation = fmt.Errorf("lnchannel: revocation secret does not match commitment point")

	// ErrUnexpectedRevocation is returned by ReceiveRevocation when no
	// commitment is outstanding and awaiting revocation.
	ErrUnexpectedRevocation = fmt.Errorf("lnchannel: unexpected revocation, no commitment awaiting one")

	// ErrInvalidHtlcID is returned by ReceiveAdd when the peer's HTLC ID
	// is not exactly one greater than the last ID it used - HTLC IDs
	// must be strictly monotonic with no gaps.
	ErrInvalidHtlcID = fmt.Errorf("lnchannel: htlc id is not the expected next value")
)
