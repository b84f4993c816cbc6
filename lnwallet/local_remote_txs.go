package lnwallet

import "github.com/btcsuite/btcd/btcec/v2"

// PublishableTxs bundles a commitment transaction with the second-level
// HTLC transactions that spend from it, as a unit ready for broadcast if
// this commitment is ever force-closed.
type PublishableTxs struct {
	CommitTx    *CommitmentTxn
	HtlcSuccess []*HtlcSuccessTx
	HtlcTimeout []*HtlcTimeoutTx
}

// MakeLocalTxs builds the local party's own commitment transaction - the
// one it would broadcast to force-close the channel - and the second-level
// transactions spending from it.
func MakeLocalTxs(local, remote ChannelConfig, fundingInput CommitInput,
	perCommitPoint *btcec.PublicKey, spec CommitmentSpec) (*PublishableTxs, error) {

	keyRing := DeriveCommitmentKeyRing(local, remote, perCommitPoint)

	commitTx, err := MakeCommitTx(fundingInput, keyRing, local.CsvDelay, spec, local.DustLimit, true)
	if err != nil {
		return nil, err
	}

	successTxs, timeoutTxs, err := MakeHtlcTxs(
		commitTx.Tx.TxHash(), commitTx, local.CsvDelay,
		keyRing.ToLocalKey, keyRing.RevocationKey, spec.FeePerKw, true,
	)
	if err != nil {
		return nil, err
	}

	return &PublishableTxs{
		CommitTx:    commitTx,
		HtlcSuccess: successTxs,
		HtlcTimeout: timeoutTxs,
	}, nil
}

// MakeRemoteTxs builds the commitment transaction the local party is asked
// to sign on the remote party's behalf - i.e. the one the remote party
// would broadcast to force-close - and its second-level transactions.
func MakeRemoteTxs(remote, local ChannelConfig, fundingInput CommitInput,
	perCommitPoint *btcec.PublicKey, spec CommitmentSpec) (*PublishableTxs, error) {

	keyRing := DeriveCommitmentKeyRing(remote, local, perCommitPoint)

	commitTx, err := MakeCommitTx(fundingInput, keyRing, remote.CsvDelay, spec, remote.DustLimit, false)
	if err != nil {
		return nil, err
	}

	successTxs, timeoutTxs, err := MakeHtlcTxs(
		commitTx.Tx.TxHash(), commitTx, remote.CsvDelay,
		keyRing.ToLocalKey, keyRing.RevocationKey, spec.FeePerKw, false,
	)
	if err != nil {
		return nil, err
	}

	return &PublishableTxs{
		CommitTx:    commitTx,
		HtlcSuccess: successTxs,
		HtlcTimeout: timeoutTxs,
	}, nil
}
