package lnwallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// CheckSig verifies that sig is a valid signature by signingKey over tx's
// sole input spending prevOut with witnessScript, using the sighash
// midstate cache in hashCache.
func CheckSig(tx *wire.MsgTx, sig []byte, signingKey *btcec.PublicKey,
	prevOut *wire.TxOut, witnessScript []byte, hashCache *txscript.TxSigHashes) error {

	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("lnwallet: unable to parse signature: %w", err)
	}

	sigHash, err := txscript.CalcWitnessSigHash(
		witnessScript, hashCache, txscript.SigHashAll, tx, 0, prevOut.Value,
	)
	if err != nil {
		return fmt.Errorf("lnwallet: unable to compute sighash: %w", err)
	}

	if !parsedSig.Verify(sigHash, signingKey) {
		return fmt.Errorf("lnwallet: signature does not verify")
	}

	return nil
}
