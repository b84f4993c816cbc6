package lnchannel

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lnchannels/commitcore/lnwallet"
	"github.com/lnchannels/commitcore/lnwire"
)

// SendAdd offers a new HTLC to the remote party. It assigns the next local
// HTLC ID, checks the addition against the local party's own balance as
// seen through the remote commitment and against the remote party's
// pending-HTLC constraints, and returns the updated Commitments plus the
// UpdateAddHtlc to send.
func (c Commitments) SendAdd(amount lnwire.MilliSatoshi, paymentHash [32]byte,
	expiry uint32, onionBlob [1366]byte) (Commitments, *lnwire.UpdateAddHtlc, error) {

	id := c.LocalCurrentHtlcId + 1

	reduced, err := lnwallet.Reduce(c.RemoteCommit.Spec, c.LocalChanges.Proposed, c.RemoteChanges.Acked)
	if err != nil {
		return Commitments{}, nil, err
	}

	if err := checkAddAgainstBalance(reduced, amount, lnwallet.Out, c.RemoteParams); err != nil {
		return Commitments{}, nil, err
	}

	htlc := &lnwire.UpdateAddHtlc{
		ChanID:      c.ChannelID,
		ID:          id,
		Amount:      amount,
		PaymentHash: paymentHash,
		Expiry:      expiry,
		OnionBlob:   onionBlob,
	}

	next := c.clone()
	next.LocalCurrentHtlcId = id
	next.LocalChanges.Proposed = append(next.LocalChanges.Proposed,
		lnwallet.NewAddEntry(htlc, lnwallet.Out))

	log.Debugf("ChannelID(%x): sending htlc_add id=%d amount=%v", c.ChannelID, id, amount)

	return next, htlc, nil
}

// ReceiveAdd records an HTLC offered by the remote party. The HTLC's ID
// must be exactly one greater than the last ID the remote party used,
// enforcing strict, gapless ordering of the remote party's HTLC stream, and
// the add is checked against the remote party's own balance as seen
// through the local commitment.
func (c Commitments) ReceiveAdd(htlc *lnwire.UpdateAddHtlc) (Commitments, error) {
	expectedID := remoteNextHtlcId(c)
	if htlc.ID != expectedID {
		return Commitments{}, fmt.Errorf("%w: got %d, expected %d",
			ErrInvalidHtlcID, htlc.ID, expectedID)
	}

	reduced, err := lnwallet.Reduce(c.LocalCommit.Spec, c.LocalChanges.Acked, c.RemoteChanges.Proposed)
	if err != nil {
		return Commitments{}, err
	}

	if err := checkAddAgainstBalance(reduced, htlc.Amount, lnwallet.In, c.LocalParams); err != nil {
		return Commitments{}, err
	}

	next := c.clone()
	next.RemoteChanges.Proposed = append(next.RemoteChanges.Proposed,
		lnwallet.NewAddEntry(htlc, lnwallet.In))

	log.Debugf("ChannelID(%x): received htlc_add id=%d amount=%v", c.ChannelID, htlc.ID, htlc.Amount)

	return next, nil
}

// remoteNextHtlcId computes the next HTLC ID the remote party is expected
// to use, by scanning the adds it has already proposed across every stage
// of the change log for the highest ID it has used so far. IDs are
// one-indexed, mirroring the scheme SendAdd uses for the local side.
func remoteNextHtlcId(c Commitments) uint64 {
	var maxSeen uint64
	seen := false

	count := func(msgs []lnwire.Message) {
		for _, msg := range msgs {
			add, ok := msg.(*lnwallet.AddEntry)
			if !ok || add.Direction != lnwallet.In {
				continue
			}
			if !seen || add.Htlc.ID > maxSeen {
				maxSeen = add.Htlc.ID
				seen = true
			}
		}
	}

	count(c.RemoteChanges.Acked)
	count(c.RemoteChanges.Proposed)

	if !seen {
		return 1
	}
	return maxSeen + 1
}

// checkAddAgainstBalance enforces that the party offering amount can still
// afford it plus the reserve constraintOwner demands of it, and that
// neither the pending-HTLC count nor the aggregate value constraintOwner
// bounds would be exceeded. spec is folded over every change already in
// flight for the offering side, not yet including amount itself -
// offeredDirection picks out which of spec's two balances is the
// offerer's own.
func checkAddAgainstBalance(spec lnwallet.CommitmentSpec, amount lnwire.MilliSatoshi,
	offeredDirection lnwallet.HtlcDirection, constraintOwner lnwallet.ChannelConfig) error {

	if amount < constraintOwner.MinHTLC {
		return fmt.Errorf("%w: htlc amount %d below minimum %d",
			ErrInsufficientFunds, amount, constraintOwner.MinHTLC)
	}

	available := spec.ToRemoteMsat
	if offeredDirection == lnwallet.Out {
		available = spec.ToLocalMsat
	}

	reserveMsat := lnwire.NewMSatFromSatoshis(btcutil.Amount(constraintOwner.ChanReserve))
	if amount+reserveMsat > available {
		return ErrInsufficientFunds
	}

	var count uint16
	var total lnwire.MilliSatoshi
	for _, htlc := range spec.Htlcs {
		total += htlc.Amount
		if htlc.Direction == offeredDirection {
			count++
		}
	}
	count++
	total += amount

	if count > constraintOwner.MaxAcceptedHtlcs {
		return fmt.Errorf("%w: %d pending htlcs exceeds maximum %d",
			ErrInsufficientFunds, count, constraintOwner.MaxAcceptedHtlcs)
	}
	if total > constraintOwner.MaxPendingAmount {
		return fmt.Errorf("%w: pending htlc value %d exceeds maximum %d",
			ErrInsufficientFunds, total, constraintOwner.MaxPendingAmount)
	}

	return nil
}
