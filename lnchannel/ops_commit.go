package lnchannel

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/input"
	"github.com/lnchannels/commitcore/lnwallet"
	"github.com/lnchannels/commitcore/lnwire"
)

// findHtlcTx locates the second-level transaction txs built for htlc,
// searching both the success and timeout sets.
func findHtlcTx(txs *lnwallet.PublishableTxs, htlc lnwallet.Htlc) *wire.MsgTx {
	for _, t := range txs.HtlcSuccess {
		if t.Htlc.ID == htlc.ID && t.Htlc.Direction == htlc.Direction {
			return t.Tx
		}
	}
	for _, t := range txs.HtlcTimeout {
		if t.Htlc.ID == htlc.ID && t.Htlc.Direction == htlc.Direction {
			return t.Tx
		}
	}
	return nil
}

// findHtlcOutput locates the commitment output entry for htlc within
// commitTx, giving access to its witness script and output index.
func findHtlcOutput(commitTx *lnwallet.CommitmentTxn, htlc lnwallet.Htlc) (lnwallet.HtlcOutput, bool) {
	for _, ho := range commitTx.Htlcs {
		if ho.Htlc.ID == htlc.ID && ho.Htlc.Direction == htlc.Direction {
			return ho, true
		}
	}
	return lnwallet.HtlcOutput{}, false
}

// fundingSignDescriptor builds the SignDescriptor for the sole input of a
// commitment transaction, spending the channel's funding output.
func fundingSignDescriptor(c Commitments, tx *wire.MsgTx) (*input.SignDescriptor, error) {
	fundingPkScript, err := input.FundingWitnessProgram(c.CommitInput.RedeemScript)
	if err != nil {
		return nil, err
	}

	return &input.SignDescriptor{
		KeyDesc:       c.LocalParams.MultiSigKey,
		WitnessScript: c.CommitInput.RedeemScript,
		Output:        wire.NewTxOut(int64(c.CommitInput.Value), fundingPkScript),
		HashType:      txscript.SigHashAll,
		SigHashes:     txscript.NewTxSigHashes(tx),
		InputIndex:    0,
	}, nil
}

// SendCommit signs a new remote commitment reflecting every remote change
// already acked and every local change proposed but not yet signed, and
// returns the CommitSig to send to the remote party.
func (c Commitments) SendCommit() (Commitments, *lnwire.CommitSig, error) {
	if !localHasChanges(c) {
		return Commitments{}, nil, ErrCannotSignNoChanges
	}

	ready, isReady := c.RemoteNextCommitInfo.(Ready)
	if !isReady {
		return Commitments{}, nil, ErrCannotSignAwaitingRevoke
	}

	spec, err := lnwallet.Reduce(c.RemoteCommit.Spec, c.LocalChanges.Proposed, c.RemoteChanges.Acked)
	if err != nil {
		return Commitments{}, nil, err
	}

	nextIndex := c.RemoteCommit.Index + 1

	txs, err := lnwallet.MakeRemoteTxs(
		c.RemoteParams, c.LocalParams, c.CommitInput, ready.NextPerCommitmentPoint, spec,
	)
	if err != nil {
		return Commitments{}, nil, err
	}

	commitSignDesc, err := fundingSignDescriptor(c, txs.CommitTx.Tx)
	if err != nil {
		return Commitments{}, nil, err
	}
	rawCommitSig, err := lnwallet.Sign(txs.CommitTx.Tx, commitSignDesc, c.Signer)
	if err != nil {
		return Commitments{}, nil, err
	}
	commitSig, err := lnwallet.ToWireFormat(rawCommitSig)
	if err != nil {
		return Commitments{}, nil, err
	}

	htlcTweak := input.SingleTweakBytes(ready.NextPerCommitmentPoint, c.LocalParams.HtlcBasePoint.PubKey)

	htlcSigs := make([][64]byte, 0, len(txs.CommitTx.Htlcs))
	for _, ho := range txs.CommitTx.Htlcs {
		htlcTx := findHtlcTx(txs, ho.Htlc)
		if htlcTx == nil {
			return Commitments{}, nil, fmt.Errorf("lnchannel: no second-level tx built for htlc %d", ho.Htlc.ID)
		}

		signDesc := &input.SignDescriptor{
			KeyDesc:       c.LocalParams.HtlcBasePoint,
			SingleTweak:   htlcTweak,
			WitnessScript: ho.WitnessScript,
			Output:        txs.CommitTx.Tx.TxOut[ho.OutputIndex],
			HashType:      txscript.SigHashAll,
			SigHashes:     txscript.NewTxSigHashes(htlcTx),
			InputIndex:    0,
		}

		rawSig, err := lnwallet.Sign(htlcTx, signDesc, c.Signer)
		if err != nil {
			return Commitments{}, nil, err
		}
		wireSig, err := lnwallet.ToWireFormat(rawSig)
		if err != nil {
			return Commitments{}, nil, err
		}
		htlcSigs = append(htlcSigs, wireSig)
	}

	next := c.clone()
	next.RemoteNextCommitInfo = AwaitingRevocation{
		Commit: RemoteCommit{
			Index:                    nextIndex,
			Spec:                     spec,
			Txid:                     txs.CommitTx.Tx.TxHash(),
			RemotePerCommitmentPoint: ready.NextPerCommitmentPoint,
		},
		LocalChanges: next.LocalChanges.Proposed,
	}
	next.LocalChanges.Signed = next.LocalChanges.Proposed
	next.LocalChanges.Proposed = nil
	next.RemoteChanges.Acked = nil

	log.Debugf("ChannelID(%x): signed remote commitment at index=%d, %d htlc sigs",
		c.ChannelID, nextIndex, len(htlcSigs))

	return next, &lnwire.CommitSig{
		ChanID:    c.ChannelID,
		CommitSig: commitSig,
		HtlcSigs:  htlcSigs,
	}, nil
}

// ReceiveCommit verifies a CommitSig the remote party sent for the local
// party's next commitment, and returns the updated Commitments plus the
// RevokeAndAck that revokes the commitment it supersedes.
func (c Commitments) ReceiveCommit(msg *lnwire.CommitSig) (Commitments, *lnwire.RevokeAndAck, error) {
	if !remoteHasChanges(c) {
		return Commitments{}, nil, ErrCannotSignNoChanges
	}

	spec, err := lnwallet.Reduce(c.LocalCommit.Spec, c.LocalChanges.Acked, c.RemoteChanges.Proposed)
	if err != nil {
		return Commitments{}, nil, err
	}

	nextIndex := c.LocalCommit.Index + 1

	nextSecret := c.LocalCommitSecretProducer.At(nextIndex)
	nextPerCommitPoint := input.ComputeCommitmentPoint(nextSecret[:])

	txs, err := lnwallet.MakeLocalTxs(c.LocalParams, c.RemoteParams, c.CommitInput, nextPerCommitPoint, spec)
	if err != nil {
		return Commitments{}, nil, err
	}

	derCommitSig := lnwallet.FromWireFormat(msg.CommitSig)
	fundingPkScript, err := input.FundingWitnessProgram(c.CommitInput.RedeemScript)
	if err != nil {
		return Commitments{}, nil, err
	}
	fundingOut := wire.NewTxOut(int64(c.CommitInput.Value), fundingPkScript)
	commitHashCache := txscript.NewTxSigHashes(txs.CommitTx.Tx)
	if err := lnwallet.CheckSig(
		txs.CommitTx.Tx, derCommitSig, c.RemoteParams.MultiSigKey.PubKey,
		fundingOut, c.CommitInput.RedeemScript, commitHashCache,
	); err != nil {
		return Commitments{}, nil, fmt.Errorf("%w: %v", ErrInvalidCommitSignature, err)
	}

	if len(msg.HtlcSigs) != len(txs.CommitTx.Htlcs) {
		return Commitments{}, nil, fmt.Errorf("%w: got %d, want %d",
			ErrHtlcSigCountMismatch, len(msg.HtlcSigs), len(txs.CommitTx.Htlcs))
	}

	remoteHtlcKey := input.TweakPubKey(c.RemoteParams.HtlcBasePoint.PubKey, nextPerCommitPoint)

	for i, ho := range txs.CommitTx.Htlcs {
		htlcTx := findHtlcTx(txs, ho.Htlc)
		if htlcTx == nil {
			return Commitments{}, nil, fmt.Errorf("lnchannel: no second-level tx built for htlc %d", ho.Htlc.ID)
		}

		derHtlcSig := lnwallet.FromWireFormat(msg.HtlcSigs[i])
		out := txs.CommitTx.Tx.TxOut[ho.OutputIndex]
		htlcHashCache := txscript.NewTxSigHashes(htlcTx)
		if err := lnwallet.CheckSig(
			htlcTx, derHtlcSig, remoteHtlcKey, out, ho.WitnessScript, htlcHashCache,
		); err != nil {
			return Commitments{}, nil, fmt.Errorf("%w: htlc %d: %v", ErrInvalidHtlcSignature, ho.Htlc.ID, err)
		}
	}

	// The secret that revokes the commitment at c.LocalCommit.Index - the
	// one this new commitment supersedes - not the one just built.
	oldSecret := c.LocalCommitSecretProducer.At(c.LocalCommit.Index)
	oldPerCommitPoint := input.ComputeCommitmentPoint(oldSecret[:])

	nextNextSecret := c.LocalCommitSecretProducer.At(nextIndex + 1)
	nextNextPoint := input.ComputeCommitmentPoint(nextNextSecret[:])

	htlcTimeoutSigs, err := signOwnHtlcTimeoutTxs(c, oldPerCommitPoint)
	if err != nil {
		return Commitments{}, nil, err
	}

	var nextRevocationKey [33]byte
	copy(nextRevocationKey[:], nextNextPoint.SerializeCompressed())

	next := c.clone()
	next.LocalCommit = LocalCommit{
		Index:          nextIndex,
		Spec:           spec,
		PublishableTxs: txs,
	}
	next.LocalChanges.Acked = nil
	next.RemoteChanges.Acked = append(
		append([]lnwire.Message(nil), c.RemoteChanges.Acked...), c.RemoteChanges.Proposed...,
	)
	next.RemoteChanges.Proposed = nil

	log.Debugf("ChannelID(%x): accepted remote commitment signature, local commitment now at index=%d",
		c.ChannelID, nextIndex)

	return next, &lnwire.RevokeAndAck{
		ChanID:            c.ChannelID,
		Revocation:        oldSecret,
		NextRevocationKey: nextRevocationKey,
		HtlcTimeoutSigs:   htlcTimeoutSigs,
	}, nil
}

// signOwnHtlcTimeoutTxs signs every HTLC-timeout transaction on the local
// commitment just superseded, under the per-commitment point it was built
// with - the signatures a RevokeAndAck hands the remote party so it can
// claim those HTLCs unilaterally if that commitment is ever republished.
func signOwnHtlcTimeoutTxs(c Commitments, perCommitPoint *btcec.PublicKey) ([][64]byte, error) {
	tweak := input.SingleTweakBytes(perCommitPoint, c.LocalParams.HtlcBasePoint.PubKey)

	sigs := make([][64]byte, 0, len(c.LocalCommit.PublishableTxs.HtlcTimeout))
	for _, t := range c.LocalCommit.PublishableTxs.HtlcTimeout {
		ho, ok := findHtlcOutput(c.LocalCommit.PublishableTxs.CommitTx, t.Htlc)
		if !ok {
			return nil, fmt.Errorf("lnchannel: no commitment output recorded for htlc %d", t.Htlc.ID)
		}

		signDesc := &input.SignDescriptor{
			KeyDesc:       c.LocalParams.HtlcBasePoint,
			SingleTweak:   tweak,
			WitnessScript: ho.WitnessScript,
			Output:        c.LocalCommit.PublishableTxs.CommitTx.Tx.TxOut[ho.OutputIndex],
			HashType:      txscript.SigHashAll,
			SigHashes:     txscript.NewTxSigHashes(t.Tx),
			InputIndex:    0,
		}

		rawSig, err := lnwallet.Sign(t.Tx, signDesc, c.Signer)
		if err != nil {
			return nil, err
		}
		wireSig, err := lnwallet.ToWireFormat(rawSig)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, wireSig)
	}

	return sigs, nil
}
