package lnwallet

import "fmt"

// ErrUnknownHtlc is returned by Reduce when a fulfill or fail references an
// HTLC ID that is not present in the change log being reduced.
var ErrUnknownHtlc = fmt.Errorf("lnwallet: reference to unknown htlc")
