package lnchannel

import (
	"crypto/sha256"
	"fmt"

	"github.com/lnchannels/commitcore/lnwallet"
	"github.com/lnchannels/commitcore/lnwire"
)

// findLive locates a still-live HTLC with the given ID and direction
// somewhere in the change logs folded on top of the relevant base
// commitment - used to validate a fulfill/fail before proposing it, and to
// recover the payment hash a preimage must match.
func (c Commitments) findLive(id uint64, direction lnwallet.HtlcDirection) (lnwallet.Htlc, error) {
	spec, err := c.pendingSpec()
	if err != nil {
		return lnwallet.Htlc{}, err
	}
	for _, htlc := range spec.Htlcs {
		if htlc.ID == id && htlc.Direction == direction {
			return htlc, nil
		}
	}
	return lnwallet.Htlc{}, fmt.Errorf("%w: id %d", ErrUnknownHtlc, id)
}

// SendFulfill settles an HTLC the remote party offered (direction In) by
// revealing its preimage. The preimage must hash to the HTLC's payment
// hash.
func (c Commitments) SendFulfill(id uint64, preimage [32]byte) (Commitments, *lnwire.UpdateFulfillHtlc, error) {
	htlc, err := c.findLive(id, lnwallet.In)
	if err != nil {
		return Commitments{}, nil, err
	}

	if sha256.Sum256(preimage[:]) != htlc.PaymentHash {
		return Commitments{}, nil, fmt.Errorf("%w: id %d", ErrInvalidPreimage, id)
	}

	msg := &lnwire.UpdateFulfillHtlc{
		ChanID:          c.ChannelID,
		ID:              id,
		PaymentPreimage: preimage,
	}

	next := c.clone()
	next.LocalChanges.Proposed = append(next.LocalChanges.Proposed, msg)

	return next, msg, nil
}

// ReceiveFulfill records the remote party settling an HTLC the local party
// offered (direction Out), verifying the preimage it supplies.
func (c Commitments) ReceiveFulfill(msg *lnwire.UpdateFulfillHtlc) (Commitments, error) {
	htlc, err := c.findLive(msg.ID, lnwallet.Out)
	if err != nil {
		return Commitments{}, err
	}

	if sha256.Sum256(msg.PaymentPreimage[:]) != htlc.PaymentHash {
		return Commitments{}, fmt.Errorf("%w: id %d", ErrInvalidPreimage, msg.ID)
	}

	next := c.clone()
	next.RemoteChanges.Proposed = append(next.RemoteChanges.Proposed, msg)

	return next, nil
}

// SendFail removes an HTLC the remote party offered (direction In) without
// revealing a preimage, refunding it to the remote party. reason is an
// opaque onion-encrypted failure blob the core only threads through.
func (c Commitments) SendFail(id uint64, reason []byte) (Commitments, *lnwire.UpdateFailHtlc, error) {
	if _, err := c.findLive(id, lnwallet.In); err != nil {
		return Commitments{}, nil, err
	}

	msg := &lnwire.UpdateFailHtlc{
		ChanID: c.ChannelID,
		ID:     id,
		Reason: reason,
	}

	next := c.clone()
	next.LocalChanges.Proposed = append(next.LocalChanges.Proposed, msg)

	return next, msg, nil
}

// ReceiveFail records the remote party failing an HTLC the local party
// offered (direction Out).
func (c Commitments) ReceiveFail(msg *lnwire.UpdateFailHtlc) (Commitments, error) {
	if _, err := c.findLive(msg.ID, lnwallet.Out); err != nil {
		return Commitments{}, err
	}

	next := c.clone()
	next.RemoteChanges.Proposed = append(next.RemoteChanges.Proposed, msg)

	return next, nil
}
