package lnwire

// Message is implemented by every decoded value the commitment engine
// exchanges with its peer. Byte-level framing and parsing belongs to the
// adjacent wire codec, not to this package - these types carry only the
// already-decoded fields the engine actually reads and writes.
type Message interface {
	// TargetChanID returns the channel this message pertains to.
	TargetChanID() ChannelID
}

// UpdateAddHtlc is sent by the offering party to add a new HTLC to the
// other party's commitment transaction. It does not take effect until
// acked and signed into a new commitment by both sides.
type UpdateAddHtlc struct {
	// ChanID references the active channel this HTLC is being added to.
	ChanID ChannelID

	// ID is the identifier for this HTLC, assigned by the sender and
	// unique (and monotonically increasing) for the lifetime of the
	// channel.
	ID uint64

	// Amount is the number of milli-satoshis this HTLC is worth.
	Amount MilliSatoshi

	// PaymentHash is the sha256 of the payment preimage that settles
	// this HTLC.
	PaymentHash [32]byte

	// Expiry is the absolute block height at which this HTLC times out.
	Expiry uint32

	// OnionBlob is an opaque onion-routing packet, read and produced by
	// the router this core treats as an external collaborator.
	OnionBlob [1366]byte
}

// TargetChanID implements the Message interface.
func (u *UpdateAddHtlc) TargetChanID() ChannelID { return u.ChanID }

// UpdateFulfillHtlc settles a previously offered HTLC by revealing the
// payment preimage.
type UpdateFulfillHtlc struct {
	ChanID ChannelID

	// ID denotes the exact HTLC being settled.
	ID uint64

	// PaymentPreimage is the R-value preimage that settles the HTLC.
	PaymentPreimage [32]byte
}

// TargetChanID implements the Message interface.
func (u *UpdateFulfillHtlc) TargetChanID() ChannelID { return u.ChanID }

// UpdateFailHtlc removes a previously offered HTLC without revealing its
// preimage, refunding it to the payer.
type UpdateFailHtlc struct {
	ChanID ChannelID

	// ID denotes the exact HTLC being failed.
	ID uint64

	// Reason is an opaque, onion-encrypted failure blob. Its wire
	// encoding is the excluded router's concern; the core only threads
	// the bytes through.
	Reason []byte
}

// TargetChanID implements the Message interface.
func (u *UpdateFailHtlc) TargetChanID() ChannelID { return u.ChanID }

// CommitSig is sent to commit to a new remote commitment transaction, along
// with the signatures needed to spend the HTLC outputs it contains.
type CommitSig struct {
	ChanID ChannelID

	// CommitSig is the signature for the new commitment transaction.
	CommitSig [64]byte

	// HtlcSigs is the set of signatures for the second-level HTLC
	// transactions, in the canonical output-index sort order.
	HtlcSigs [][64]byte
}

// TargetChanID implements the Message interface.
func (c *CommitSig) TargetChanID() ChannelID { return c.ChanID }

// RevokeAndAck revokes the prior local commitment by revealing its
// per-commitment secret, and hands over the next per-commitment point the
// remote party should use to build the next commitment.
type RevokeAndAck struct {
	ChanID ChannelID

	// Revocation is the per-commitment secret for the commitment being
	// revoked.
	Revocation [32]byte

	// NextRevocationKey is the per-commitment point the sender will use
	// for its next commitment transaction.
	NextRevocationKey [33]byte

	// HtlcTimeoutSigs holds the sender's signatures for its own
	// HTLC-timeout transactions over the commitment just revoked, needed
	// by the other side if it ever has to claim those HTLCs unilaterally.
	HtlcTimeoutSigs [][64]byte
}

// TargetChanID implements the Message interface.
func (r *RevokeAndAck) TargetChanID() ChannelID { return r.ChanID }

// Error is sent in response to a protocol violation. Receiving one is fatal
// to the channel; the owning state machine must transition to closing.
type Error struct {
	ChanID ChannelID

	// Data carries a human-readable description of the failure.
	Data []byte
}

// TargetChanID implements the Message interface.
func (e *Error) TargetChanID() ChannelID { return e.ChanID }

// OpenChannel is sent by the funder to propose a new channel. Only the
// fields the core's acceptance policy consults are modeled here - the rest
// of the handshake belongs to the excluded opening FSM.
type OpenChannel struct {
	ChanID ChannelID

	// FundingSatoshis is the total channel capacity being proposed.
	FundingSatoshis uint64

	// ChannelReserveSatoshis is the minimum balance the proposer wants
	// the responder to always keep on its own side.
	ChannelReserveSatoshis uint64

	// DustLimitSatoshis is the proposer's dust threshold.
	DustLimitSatoshis uint64

	// ToSelfDelay is the CSV delay the proposer wants enforced on its
	// own to_local output.
	ToSelfDelay uint16
}

// TargetChanID implements the Message interface.
func (o *OpenChannel) TargetChanID() ChannelID { return o.ChanID }
