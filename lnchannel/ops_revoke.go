package lnchannel

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lnchannels/commitcore/input"
	"github.com/lnchannels/commitcore/lnwire"
)

// maxCommitIndex is the highest commitment index shachain's derivation tree
// addresses - per-commitment secrets are stored keyed by their distance from
// this ceiling, oldest commitments first.
const maxCommitIndex = (uint64(1) << 48) - 1

// ReceiveRevocation records the remote party revoking its prior commitment
// by revealing the per-commitment secret for it, advancing RemoteCommit to
// the one that was AwaitingRevocation and acking every local change that
// commitment carried.
func (c Commitments) ReceiveRevocation(msg *lnwire.RevokeAndAck) (Commitments, error) {
	awaiting, ok := c.RemoteNextCommitInfo.(AwaitingRevocation)
	if !ok {
		return Commitments{}, ErrUnexpectedRevocation
	}

	if err := checkRevocationBinds(msg.Revocation, c.RemoteCommit.RemotePerCommitmentPoint); err != nil {
		return Commitments{}, err
	}

	nextPoint, err := btcec.ParsePubKey(msg.NextRevocationKey[:])
	if err != nil {
		return Commitments{}, ErrInvalidRevocation
	}

	next := c.clone()
	next.RemoteCommit = awaiting.Commit
	next.RemoteNextCommitInfo = Ready{NextPerCommitmentPoint: nextPoint}

	next.LocalChanges.Acked = append(
		append([]lnwire.Message(nil), c.LocalChanges.Acked...), c.LocalChanges.Signed...,
	)
	next.LocalChanges.Signed = nil

	if err := next.RemotePerCommitmentSecrets.AddSecret(
		maxCommitIndex-c.RemoteCommit.Index, msg.Revocation,
	); err != nil {
		return Commitments{}, err
	}

	log.Debugf("ChannelID(%x): received revocation for remote commitment index=%d",
		c.ChannelID, c.RemoteCommit.Index)

	return next, nil
}

// checkRevocationBinds verifies that revealedSecret is the private scalar
// behind expectedPoint - the exact prior remote per-commitment point this
// revocation must revoke.
func checkRevocationBinds(revealedSecret [32]byte, expectedPoint *btcec.PublicKey) error {
	if expectedPoint == nil {
		return ErrInvalidRevocation
	}
	if input.ComputeCommitmentPoint(revealedSecret[:]).IsEqual(expectedPoint) {
		return nil
	}
	return ErrInvalidRevocation
}
