package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	"github.com/task3-labs/task3-go/pkg/transactionSigner"
	"github.com/task3-labs/task3-go/pkg/types"
	"go.uber.org/zap"
)

// EVMBountyOperator implements IBountyOperator against a BountyManager
// contract. All ABI encoding, event parsing and address handling stays here;
// the engine never sees chain primitives.
type EVMBountyOperator struct {
	contractAddress common.Address
	contract        *bind.BoundContract
	contractAbi     abi.ABI
	ethClient       *ethclient.Client
	signer          transactionSigner.TransactionSigner
	logger          *zap.SugaredLogger
}

// NewEVMBountyOperator creates a ledger adapter for the BountyManager at the
// given address
func NewEVMBountyOperator(
	contractAddress string,
	ethClient *ethclient.Client,
	signer transactionSigner.TransactionSigner,
	logger *zap.Logger,
) (*EVMBountyOperator, error) {
	parsedAbi, err := abi.JSON(strings.NewReader(bountyManagerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse BountyManager ABI: %w", err)
	}

	address := common.HexToAddress(contractAddress)
	contract := bind.NewBoundContract(address, parsedAbi, ethClient, ethClient, ethClient)

	return &EVMBountyOperator{
		contractAddress: address,
		contract:        contract,
		contractAbi:     parsedAbi,
		ethClient:       ethClient,
		signer:          signer,
		logger:          logger.Sugar(),
	}, nil
}

// bountyRecord mirrors the BountyManager's Bounty tuple
type bountyRecord struct {
	BountyId     *big.Int
	TaskId       string
	TaskUrl      string
	TaskHash     [32]byte
	Sponsor      common.Address
	Worker       common.Address
	Amount       *big.Int
	Asset        string
	Status       uint8
	CreatedAt    uint64
	AcceptedAt   uint64
	SubmittedAt  uint64
	ConfirmedAt  uint64
	ClaimedAt    uint64
	CoolingUntil uint64
}

// CreateBounty submits a createBounty transaction and extracts the assigned
// id from the BountyCreated event
func (o *EVMBountyOperator) CreateBounty(ctx context.Context, params *bountyOperator.CreateBountyParams) (*bountyOperator.CreateBountyResult, error) {
	amount, ok := new(big.Int).SetString(params.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid bounty amount %q", params.Amount)
	}
	taskHash, err := hashToBytes32(params.TaskHash)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "createBounty", params.TaskId, params.TaskUrl, taskHash, amount, params.Asset)
	if err != nil {
		return nil, err
	}

	bountyId, err := o.bountyIdFromReceipt(receipt)
	if err != nil {
		return nil, err
	}

	o.logger.Infow("Created bounty on chain",
		"bountyId", bountyId.String(),
		"taskId", params.TaskId,
		"txHash", receipt.TxHash.Hex(),
	)

	return &bountyOperator.CreateBountyResult{
		BountyId: bountyId.String(),
		TxRef:    receipt.TxHash.Hex(),
	}, nil
}

// AcceptBounty transitions Open -> Accepted; the signer address becomes the worker
func (o *EVMBountyOperator) AcceptBounty(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	id, err := o.requireStatus(ctx, bountyId, types.BountyStatusOpen)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "acceptBounty", id)
	if err != nil {
		return nil, err
	}
	return &bountyOperator.TxResult{TxRef: receipt.TxHash.Hex()}, nil
}

// SubmitBounty transitions Accepted -> Submitted with the submission reference
func (o *EVMBountyOperator) SubmitBounty(ctx context.Context, bountyId string, submissionRef string) (*bountyOperator.TxResult, error) {
	id, err := o.requireStatus(ctx, bountyId, types.BountyStatusAccepted)
	if err != nil {
		return nil, err
	}

	ref, err := hashToBytes32(submissionRef)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "submitBounty", id, ref)
	if err != nil {
		return nil, err
	}
	return &bountyOperator.TxResult{TxRef: receipt.TxHash.Hex()}, nil
}

// ConfirmBounty transitions Submitted -> Confirmed; the contract computes
// the cooling deadline, which is read back from the updated record
func (o *EVMBountyOperator) ConfirmBounty(ctx context.Context, bountyId string, confirmedAt time.Time) (*bountyOperator.ConfirmBountyResult, error) {
	id, err := o.requireStatus(ctx, bountyId, types.BountyStatusSubmitted)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "confirmBounty", id, uint64(confirmedAt.Unix()))
	if err != nil {
		return nil, err
	}

	record, err := o.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	return &bountyOperator.ConfirmBountyResult{
		TxRef:        receipt.TxHash.Hex(),
		ConfirmedAt:  time.Unix(int64(record.ConfirmedAt), 0).UTC(),
		CoolingUntil: time.Unix(int64(record.CoolingUntil), 0).UTC(),
	}, nil
}

// ClaimPayout transitions Confirmed -> Claimed and releases escrowed funds
func (o *EVMBountyOperator) ClaimPayout(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	id, err := o.requireStatus(ctx, bountyId, types.BountyStatusConfirmed)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "claimPayout", id)
	if err != nil {
		return nil, err
	}
	return &bountyOperator.TxResult{TxRef: receipt.TxHash.Hex()}, nil
}

// CancelBounty cancels a bounty; the contract enforces its own eligibility rule
func (o *EVMBountyOperator) CancelBounty(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	id, err := parseBountyId(bountyId)
	if err != nil {
		return nil, err
	}

	receipt, err := o.transact(ctx, "cancelBounty", id)
	if err != nil {
		return nil, err
	}
	return &bountyOperator.TxResult{TxRef: receipt.TxHash.Hex()}, nil
}

// GetBounty reads a bounty record from the contract
func (o *EVMBountyOperator) GetBounty(ctx context.Context, bountyId string) (*types.Bounty, error) {
	id, err := parseBountyId(bountyId)
	if err != nil {
		return nil, err
	}
	record, err := o.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToBounty(record), nil
}

// GetBountyIdByTaskHash looks up a bounty by idempotency key
func (o *EVMBountyOperator) GetBountyIdByTaskHash(ctx context.Context, taskHash string) (string, bool, error) {
	hash, err := hashToBytes32(taskHash)
	if err != nil {
		return "", false, err
	}

	var out []interface{}
	err = o.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBountyIdByTaskHash", hash)
	if err != nil {
		return "", false, mapContractError("getBountyIdByTaskHash", err)
	}

	found := *abi.ConvertType(out[0], new(bool)).(*bool)
	if !found {
		return "", false, nil
	}
	id := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	return id.String(), true, nil
}

// ListBounties returns every bounty tracked by the contract
func (o *EVMBountyOperator) ListBounties(ctx context.Context) ([]*types.Bounty, error) {
	return o.listByCall(ctx, "listBountyIds")
}

// ListBountiesBySponsor returns bounties funded by the given address
func (o *EVMBountyOperator) ListBountiesBySponsor(ctx context.Context, sponsor string) ([]*types.Bounty, error) {
	return o.listByCall(ctx, "listBountyIdsBySponsor", common.HexToAddress(sponsor))
}

// ListBountiesByWorker returns bounties accepted by the given address
func (o *EVMBountyOperator) ListBountiesByWorker(ctx context.Context, worker string) ([]*types.Bounty, error) {
	return o.listByCall(ctx, "listBountyIdsByWorker", common.HexToAddress(worker))
}

func (o *EVMBountyOperator) listByCall(ctx context.Context, method string, args ...interface{}) ([]*types.Bounty, error) {
	var out []interface{}
	err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		return nil, mapContractError(method, err)
	}

	ids := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)
	bounties := make([]*types.Bounty, 0, len(ids))
	for _, id := range ids {
		record, err := o.getRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		bounties = append(bounties, recordToBounty(record))
	}
	return bounties, nil
}

// requireStatus performs the pre-flight state read so callers get a
// structured InvalidStateError instead of burning gas on a guaranteed
// revert. The contract's own guard remains the authority under races.
func (o *EVMBountyOperator) requireStatus(ctx context.Context, bountyId string, expected types.BountyStatus) (*big.Int, error) {
	id, err := parseBountyId(bountyId)
	if err != nil {
		return nil, err
	}
	record, err := o.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	actual := statusFromUint8(record.Status)
	if actual != expected {
		return nil, &bountyOperator.InvalidStateError{
			BountyId: bountyId,
			Expected: expected,
			Actual:   actual,
		}
	}
	return id, nil
}

func (o *EVMBountyOperator) getRecord(ctx context.Context, id *big.Int) (*bountyRecord, error) {
	var out []interface{}
	err := o.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBounty", id)
	if err != nil {
		return nil, mapContractError("getBounty", err)
	}
	record := *abi.ConvertType(out[0], new(bountyRecord)).(*bountyRecord)
	return &record, nil
}

func (o *EVMBountyOperator) transact(ctx context.Context, method string, args ...interface{}) (*ethtypes.Receipt, error) {
	opts, err := o.signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build transact opts: %w", method, err)
	}

	tx, err := o.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, mapContractError(method, err)
	}

	receipt, err := o.signer.EnsureTransactionMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return receipt, nil
}

// bountyIdFromReceipt extracts the assigned id from the BountyCreated event
func (o *EVMBountyOperator) bountyIdFromReceipt(receipt *ethtypes.Receipt) (*big.Int, error) {
	event, ok := o.contractAbi.Events["BountyCreated"]
	if !ok {
		return nil, fmt.Errorf("BountyCreated event missing from ABI")
	}

	for _, log := range receipt.Logs {
		if log.Address != o.contractAddress || len(log.Topics) < 2 {
			continue
		}
		if log.Topics[0] != event.ID {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[1].Bytes()), nil
	}
	return nil, fmt.Errorf("BountyCreated event not found in receipt %s", receipt.TxHash.Hex())
}

func parseBountyId(bountyId string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(bountyId, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid bounty id %q", bountyOperator.ErrNotFound, bountyId)
	}
	return id, nil
}

func hashToBytes32(hash string) ([32]byte, error) {
	var out [32]byte
	decoded := common.FromHex(hash)
	if len(decoded) != 32 {
		return out, fmt.Errorf("invalid 32-byte hash %q", hash)
	}
	copy(out[:], decoded)
	return out, nil
}

func statusFromUint8(status uint8) types.BountyStatus {
	switch status {
	case 0:
		return types.BountyStatusOpen
	case 1:
		return types.BountyStatusAccepted
	case 2:
		return types.BountyStatusSubmitted
	case 3:
		return types.BountyStatusConfirmed
	case 4:
		return types.BountyStatusClaimed
	case 5:
		return types.BountyStatusCancelled
	default:
		return types.BountyStatus(fmt.Sprintf("Unknown(%d)", status))
	}
}

func unixToTimePtr(unix uint64) *time.Time {
	if unix == 0 {
		return nil
	}
	t := time.Unix(int64(unix), 0).UTC()
	return &t
}

func recordToBounty(record *bountyRecord) *types.Bounty {
	bounty := &types.Bounty{
		BountyId:     record.BountyId.String(),
		TaskId:       record.TaskId,
		TaskUrl:      record.TaskUrl,
		TaskHash:     "0x" + common.Bytes2Hex(record.TaskHash[:]),
		Sponsor:      record.Sponsor.Hex(),
		Amount:       record.Amount.String(),
		Asset:        record.Asset,
		Status:       statusFromUint8(record.Status),
		CreatedAt:    time.Unix(int64(record.CreatedAt), 0).UTC(),
		AcceptedAt:   unixToTimePtr(record.AcceptedAt),
		SubmittedAt:  unixToTimePtr(record.SubmittedAt),
		ConfirmedAt:  unixToTimePtr(record.ConfirmedAt),
		ClaimedAt:    unixToTimePtr(record.ClaimedAt),
		CoolingUntil: unixToTimePtr(record.CoolingUntil),
	}
	if record.Worker != (common.Address{}) {
		bounty.Worker = record.Worker.Hex()
	}
	return bounty
}

// mapContractError translates contract reverts into the capability error taxonomy
func mapContractError(method string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "BountyNotFound"):
		return fmt.Errorf("%s: %w", method, bountyOperator.ErrNotFound)
	case strings.Contains(msg, "InvalidState"):
		return fmt.Errorf("%s: %w", method, bountyOperator.ErrInvalidState)
	case strings.Contains(msg, "CoolingPeriodActive"):
		return fmt.Errorf("%s: %w", method, bountyOperator.ErrCoolingPeriodActive)
	case strings.Contains(msg, "NotAuthorized"):
		return fmt.Errorf("%s: %w", method, bountyOperator.ErrUnauthorized)
	}
	return fmt.Errorf("%s: %v: %w", method, err, bountyOperator.ErrTransient)
}
