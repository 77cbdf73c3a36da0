package report

import "github.com/tinoosan/finsight/internal/ledger"

// IsTransfer reports whether the transaction is one leg of a transfer between
// the user's own accounts.
func IsTransfer(tx ledger.Transaction) bool { return tx.TransferID != "" }
