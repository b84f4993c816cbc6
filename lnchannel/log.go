package lnchannel

import "github.com/btcsuite/btclog"

// log is this package's logger, disabled by default until the embedding
// application calls UseLogger with a concrete implementation.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by the Commitments
// operations for diagnostic output. It is not safe to call concurrently
// with any in-flight operation.
func UseLogger(logger btclog.Logger) {
	log = logger
}
