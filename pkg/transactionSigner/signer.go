package transactionSigner

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TransactionSigner provides methods for signing and tracking Ethereum transactions
type TransactionSigner interface {
	// GetTransactOpts returns transaction options bound to the signer's key
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)

	// GetFromAddress returns the address that will be used for signing
	GetFromAddress() common.Address

	// EnsureTransactionMined waits for a sent transaction to mine and
	// verifies its status
	EnsureTransactionMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}
