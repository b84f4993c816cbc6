package lnwallet

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lnchannels/commitcore/input"
)

// HtlcSuccessTx spends, from the commitment owner's own commitment, the
// output of an HTLC the owner received, revealing the preimage and paying
// the owner after csvDelay blocks.
type HtlcSuccessTx struct {
	Tx   *wire.MsgTx
	Htlc Htlc
}

// HtlcTimeoutTx spends, from the commitment owner's own commitment, the
// output of an HTLC the owner offered once its expiry has passed,
// refunding it to the owner after csvDelay blocks.
type HtlcTimeoutTx struct {
	Tx   *wire.MsgTx
	Htlc Htlc
}

// secondLevelOutput builds the to_local-shaped output every second-level
// HTLC transaction pays into: spendable by the revocation key immediately,
// or by the owner's delayed key after csvDelay blocks.
func secondLevelOutput(amt int64, csvDelay uint16, delayedKey, revocationKey *btcec.PublicKey) (*wire.TxOut, []byte, error) {
	script, err := input.CommitScriptToSelf(uint32(csvDelay), delayedKey, revocationKey)
	if err != nil {
		return nil, nil, err
	}

	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_0)
	sum := sha256.Sum256(script)
	bldr.AddData(sum[:])
	pkScript, err := bldr.Script()
	if err != nil {
		return nil, nil, err
	}

	return wire.NewTxOut(amt, pkScript), script, nil
}

// MakeHtlcTxs builds the second-level HTLC-success and HTLC-timeout
// transactions for every non-dust HTLC on commitTx, spending from the
// commitment transaction commitTxid at the output index recorded for each
// HTLC.
func MakeHtlcTxs(commitTxid chainhash.Hash, commitTx *CommitmentTxn, csvDelay uint16,
	delayedKey, revocationKey *btcec.PublicKey, feePerKw uint64,
	ownerIsLocal bool) ([]*HtlcSuccessTx, []*HtlcTimeoutTx, error) {

	var successTxs []*HtlcSuccessTx
	var timeoutTxs []*HtlcTimeoutTx

	for _, ho := range commitTx.Htlcs {
		tx := wire.NewMsgTx(2)
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{
				Hash:  commitTxid,
				Index: uint32(ho.OutputIndex),
			},
		})

		offeredByOwner := (ho.Htlc.Direction == Out) == ownerIsLocal

		weight := htlcSuccessWeight
		if offeredByOwner {
			weight = htlcTimeoutWeight
		}
		fee := (feePerKw * uint64(weight)) / 1000

		amt := int64(ho.Htlc.Amount.ToSatoshis()) - int64(fee)
		if amt < 0 {
			amt = 0
		}

		out, _, err := secondLevelOutput(amt, csvDelay, delayedKey, revocationKey)
		if err != nil {
			return nil, nil, err
		}
		tx.AddTxOut(out)

		if !offeredByOwner {
			// The commitment owner received this HTLC, so it holds
			// the preimage and builds an HTLC-success transaction.
			tx.LockTime = 0
			successTxs = append(successTxs, &HtlcSuccessTx{Tx: tx, Htlc: ho.Htlc})
		} else {
			// The commitment owner offered this HTLC, so it can
			// only reclaim it after expiry via an HTLC-timeout
			// transaction.
			tx.LockTime = ho.Htlc.Expiry
			timeoutTxs = append(timeoutTxs, &HtlcTimeoutTx{Tx: tx, Htlc: ho.Htlc})
		}
	}

	return successTxs, timeoutTxs, nil
}

// Weight estimates for second-level transactions, used only to size the
// fee subtracted from each HTLC's value - not consensus-critical constants,
// just reasonable fixed estimates for a single-input, single-output
// segwit transaction of each kind.
const (
	htlcSuccessWeight = 703
	htlcTimeoutWeight = 663
)
