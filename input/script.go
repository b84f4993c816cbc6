package input

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// witnessScriptHash returns the P2WSH output script paying to redeemScript.
func witnessScriptHash(redeemScript []byte) ([]byte, error) {
	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_0)
	scriptHash := sha256.Sum256(redeemScript)
	bldr.AddData(scriptHash[:])
	return bldr.Script()
}

// FundingWitnessProgram returns the P2WSH output script paying to a
// funding output's redeem script, for callers that already have the
// redeem script and just need the pkScript to build a sign descriptor.
func FundingWitnessProgram(redeemScript []byte) ([]byte, error) {
	return witnessScriptHash(redeemScript)
}

// GenFundingPkScript returns the 2-of-2 multisig redeem script for a funding
// output, the funding TxOut whose P2WSH pkScript pays to it, and an error. Pubkeys are
// lexicographically sorted per BIP-69 so both sides construct the same
// script regardless of who is "local".
func GenFundingPkScript(aPub, bPub []byte, amt int64) ([]byte, *wire.TxOut, error) {
	if amt <= 0 {
		return nil, nil, fmt.Errorf("funding amount must be positive, got %d", amt)
	}

	redeemScript, err := genMultiSigScript(aPub, bPub)
	if err != nil {
		return nil, nil, err
	}

	pkScript, err := witnessScriptHash(redeemScript)
	if err != nil {
		return nil, nil, err
	}

	return redeemScript, wire.NewTxOut(amt, pkScript), nil
}

func genMultiSigScript(aPub, bPub []byte) ([]byte, error) {
	if len(aPub) != 33 || len(bPub) != 33 {
		return nil, fmt.Errorf("pubkey size error, compressed pubkeys only")
	}
	if bytes.Compare(aPub, bPub) == 1 {
		aPub, bPub = bPub, aPub
	}

	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_2)
	bldr.AddData(aPub)
	bldr.AddData(bPub)
	bldr.AddOp(txscript.OP_2)
	bldr.AddOp(txscript.OP_CHECKMULTISIG)
	return bldr.Script()
}

// SpendMultiSig returns the witness stack needed to redeem a 2-of-2 P2WSH
// multisig output, ordering the two signatures to match the lexicographic
// pubkey order genMultiSigScript used when building the redeem script.
func SpendMultiSig(redeemScript, pubA, sigA, pubB, sigB []byte) wire.TxWitness {
	witness := make(wire.TxWitness, 4)
	witness[0] = nil

	if bytes.Compare(pubA, pubB) == 1 {
		witness[1] = sigB
		witness[2] = sigA
	} else {
		witness[1] = sigA
		witness[2] = sigB
	}

	witness[3] = redeemScript
	return witness
}

// CommitScriptToSelf returns the witness script for a commitment's to_local
// output: spendable immediately with the revocation key (punishing a
// republished old state), or after csvDelay blocks with the delayed
// payment key.
func CommitScriptToSelf(csvDelay uint32, selfKey, revocationKey *btcec.PublicKey) ([]byte, error) {
	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_IF)
	builder.AddData(revocationKey.SerializeCompressed())
	builder.AddOp(txscript.OP_ELSE)
	builder.AddInt64(int64(csvDelay))
	builder.AddOp(txscript.OP_CHECKSEQUENCEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddData(selfKey.SerializeCompressed())
	builder.AddOp(txscript.OP_ENDIF)
	builder.AddOp(txscript.OP_CHECKSIG)

	return builder.Script()
}

// CommitScriptUnencumbered returns the plain P2WPKH script for a
// commitment's to_remote output - spendable immediately by the remote
// party, with no delay or revocation clause.
func CommitScriptUnencumbered(key *btcec.PublicKey) ([]byte, error) {
	bldr := txscript.NewScriptBuilder()
	bldr.AddOp(txscript.OP_0)
	bldr.AddData(btcutil.Hash160(key.SerializeCompressed()))
	return bldr.Script()
}

// HtlcOfferedScript returns the witness script for an HTLC output on the
// offering party's own commitment transaction: claimable immediately by
// anyone holding the revocation key if the commitment was revoked,
// claimable by the receiver alone with the payment preimage, or
// reclaimable by the sender after absoluteTimeout via a jointly-signed
// HTLC-timeout transaction - the 2-of-2 clause is what makes the
// HTLC-timeout transaction's own output (a revocable, delayed one) part of
// what both parties sign, rather than something the sender could
// substitute unilaterally.
func HtlcOfferedScript(senderKey, receiverKey, revocationKey *btcec.PublicKey,
	paymentHash [32]byte, absoluteTimeout uint32) ([]byte, error) {

	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_IF)
	builder.AddData(revocationKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)

	builder.AddOp(txscript.OP_IF)
	builder.AddOp(txscript.OP_SIZE)
	builder.AddInt64(32)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(btcutil.Hash160(paymentHash[:]))
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddData(receiverKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)
	builder.AddInt64(int64(absoluteTimeout))
	builder.AddOp(txscript.OP_CHECKLOCKTIMEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddOp(txscript.OP_2)
	builder.AddData(senderKey.SerializeCompressed())
	builder.AddData(receiverKey.SerializeCompressed())
	builder.AddOp(txscript.OP_2)
	builder.AddOp(txscript.OP_CHECKMULTISIG)
	builder.AddOp(txscript.OP_ENDIF)

	builder.AddOp(txscript.OP_ENDIF)

	return builder.Script()
}

// HtlcReceivedScript returns the witness script for an HTLC output on the
// receiving party's own commitment transaction: claimable immediately by
// anyone holding the revocation key if the commitment was revoked,
// claimable jointly by both parties (the receiver supplying the preimage)
// via an HTLC-success transaction, or refundable to the sender after
// absoluteTimeout with no delay. The CSV delay that protects against a
// revoked HTLC-success transaction lives on the second-level transaction's
// own output, not in this script.
func HtlcReceivedScript(senderKey, receiverKey, revocationKey *btcec.PublicKey,
	paymentHash [32]byte, absoluteTimeout uint32) ([]byte, error) {

	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_IF)
	builder.AddData(revocationKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)

	builder.AddOp(txscript.OP_IF)
	builder.AddOp(txscript.OP_SIZE)
	builder.AddInt64(32)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(btcutil.Hash160(paymentHash[:]))
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddOp(txscript.OP_2)
	builder.AddData(senderKey.SerializeCompressed())
	builder.AddData(receiverKey.SerializeCompressed())
	builder.AddOp(txscript.OP_2)
	builder.AddOp(txscript.OP_CHECKMULTISIG)
	builder.AddOp(txscript.OP_ELSE)
	builder.AddInt64(int64(absoluteTimeout))
	builder.AddOp(txscript.OP_CHECKLOCKTIMEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddData(senderKey.SerializeCompressed())
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ENDIF)

	builder.AddOp(txscript.OP_ENDIF)

	return builder.Script()
}

// FindScriptOutputIndex locates the index of the output within tx whose
// pkScript matches script, skipping any index already claimed in used.
func FindScriptOutputIndex(tx *wire.MsgTx, script []byte, used map[int]bool) (int, bool) {
	for i, txOut := range tx.TxOut {
		if used[i] {
			continue
		}
		if bytes.Equal(txOut.PkScript, script) {
			return i, true
		}
	}
	return 0, false
}
