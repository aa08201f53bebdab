package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// PrivateKeySigner implements TransactionSigner using a local private key
type PrivateKeySigner struct {
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
	ethClient   *ethclient.Client
	logger      *zap.Logger
}

// NewPrivateKeySigner creates a new private key signer. The chain id is
// fetched from the client at transact time rather than cached, so one signer
// works across reconnects.
func NewPrivateKeySigner(privateKeyHex string, ethClient *ethclient.Client, logger *zap.Logger) (*PrivateKeySigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key ECDSA")
	}

	return &PrivateKeySigner{
		privateKey:  privateKey,
		fromAddress: crypto.PubkeyToAddress(*publicKey),
		ethClient:   ethClient,
		logger:      logger,
	}, nil
}

// GetTransactOpts returns transaction options bound to the signer's key
func (pks *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := pks.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(pks.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// GetFromAddress returns the address that will be used for signing
func (pks *PrivateKeySigner) GetFromAddress() common.Address {
	return pks.fromAddress
}

// EnsureTransactionMined waits for the transaction to mine and checks status
func (pks *PrivateKeySigner) EnsureTransactionMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, pks.ethClient, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s to mine: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		pks.logger.Sugar().Errorw("Transaction reverted",
			"txHash", receipt.TxHash.Hex(),
			"blockNumber", receipt.BlockNumber,
		)
		return nil, fmt.Errorf("transaction %s reverted", receipt.TxHash.Hex())
	}

	pks.logger.Sugar().Debugw("Transaction mined",
		"txHash", receipt.TxHash.Hex(),
		"blockNumber", receipt.BlockNumber,
	)
	return receipt, nil
}
