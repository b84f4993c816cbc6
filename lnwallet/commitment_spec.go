package lnwallet

import (
	"fmt"

	"github.com/lnchannels/commitcore/lnwire"
)

// HtlcDirection records which party originally offered an HTLC. The tag is
// fixed for the life of the HTLC and does not depend on which side's
// commitment transaction is being built from it.
type HtlcDirection bool

const (
	// Out marks an HTLC the local party offered.
	Out HtlcDirection = false

	// In marks an HTLC the remote party offered.
	In HtlcDirection = true
)

// Htlc pairs the wire-level HTLC fields with the direction it was offered
// in.
type Htlc struct {
	Direction HtlcDirection
	*lnwire.UpdateAddHtlc
}

// CommitmentSpec is the fully-resolved balance sheet a commitment
// transaction is built from. ToLocalMsat and ToRemoteMsat always refer to
// the local and remote party's balances respectively, whether this spec is
// destined for the local or the remote commitment transaction - only the
// set of live Htlcs and which basepoints get tweaked differ between the
// two.
type CommitmentSpec struct {
	// FeePerKw is the fee rate, in satoshis per 1000 weight units, this
	// commitment transaction pays.
	FeePerKw uint64

	ToLocalMsat  lnwire.MilliSatoshi
	ToRemoteMsat lnwire.MilliSatoshi

	// Htlcs is the set of HTLCs still live on this commitment.
	Htlcs []Htlc
}

// htlcKey identifies a live HTLC by the ID its offerer assigned it plus
// which party offered it - the same two facts both parties' logs agree on.
type htlcKey struct {
	id        uint64
	direction HtlcDirection
}

// Reduce folds a channel's change logs into a fresh CommitmentSpec built
// from base. localChanges and remoteChanges hold every update each party
// has sent, acked or not, in the order sent - this is the core arithmetic
// both SendCommit and ReceiveCommit use to compute the commitment they are
// about to sign or verify, for both the local and the remote commitment
// transaction alike.
func Reduce(base CommitmentSpec, localChanges, remoteChanges []lnwire.Message) (CommitmentSpec, error) {
	spec := CommitmentSpec{
		FeePerKw:     base.FeePerKw,
		ToLocalMsat:  base.ToLocalMsat,
		ToRemoteMsat: base.ToRemoteMsat,
	}

	live := make(map[htlcKey]Htlc, len(base.Htlcs))
	for _, htlc := range base.Htlcs {
		live[htlcKey{htlc.ID, htlc.Direction}] = htlc
	}

	for _, msg := range localChanges {
		switch m := msg.(type) {
		case *AddEntry:
			live[htlcKey{m.Htlc.ID, Out}] = Htlc{Direction: Out, UpdateAddHtlc: m.Htlc}
			spec.ToLocalMsat -= m.Htlc.Amount

		case *lnwire.UpdateFulfillHtlc:
			key := htlcKey{m.ID, In}
			htlc, ok := live[key]
			if !ok {
				return CommitmentSpec{}, fmt.Errorf("%w: fulfill for unknown htlc id %d",
					ErrUnknownHtlc, m.ID)
			}
			delete(live, key)
			spec.ToLocalMsat += htlc.Amount

		case *lnwire.UpdateFailHtlc:
			key := htlcKey{m.ID, In}
			htlc, ok := live[key]
			if !ok {
				return CommitmentSpec{}, fmt.Errorf("%w: fail for unknown htlc id %d",
					ErrUnknownHtlc, m.ID)
			}
			delete(live, key)
			spec.ToRemoteMsat += htlc.Amount

		default:
			return CommitmentSpec{}, fmt.Errorf("lnwallet: unexpected message type %T "+
				"in local change log", msg)
		}
	}

	for _, msg := range remoteChanges {
		switch m := msg.(type) {
		case *AddEntry:
			live[htlcKey{m.Htlc.ID, In}] = Htlc{Direction: In, UpdateAddHtlc: m.Htlc}
			spec.ToRemoteMsat -= m.Htlc.Amount

		case *lnwire.UpdateFulfillHtlc:
			key := htlcKey{m.ID, Out}
			htlc, ok := live[key]
			if !ok {
				return CommitmentSpec{}, fmt.Errorf("%w: fulfill for unknown htlc id %d",
					ErrUnknownHtlc, m.ID)
			}
			delete(live, key)
			spec.ToRemoteMsat += htlc.Amount

		case *lnwire.UpdateFailHtlc:
			key := htlcKey{m.ID, Out}
			htlc, ok := live[key]
			if !ok {
				return CommitmentSpec{}, fmt.Errorf("%w: fail for unknown htlc id %d",
					ErrUnknownHtlc, m.ID)
			}
			delete(live, key)
			spec.ToLocalMsat += htlc.Amount

		default:
			return CommitmentSpec{}, fmt.Errorf("lnwallet: unexpected message type %T "+
				"in remote change log", msg)
		}
	}

	spec.Htlcs = make([]Htlc, 0, len(live))
	for _, htlc := range live {
		spec.Htlcs = append(spec.Htlcs, htlc)
	}

	return spec, nil
}

// AddEntry wraps an UpdateAddHtlc with the direction it was offered in, so
// Reduce's change logs can carry adds uniformly alongside fulfills and
// fails.
type AddEntry struct {
	Direction HtlcDirection
	Htlc      *lnwire.UpdateAddHtlc
}

// NewAddEntry wraps htlc for inclusion in a Reduce change log, tagged with
// the direction it was offered in - Out if the local party sent it, In if
// the remote party did.
func NewAddEntry(htlc *lnwire.UpdateAddHtlc, direction HtlcDirection) lnwire.Message {
	return &AddEntry{Direction: direction, Htlc: htlc}
}

// TargetChanID implements lnwire.Message.
func (a *AddEntry) TargetChanID() lnwire.ChannelID { return a.Htlc.ChanID }
