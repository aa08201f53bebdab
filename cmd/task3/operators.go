package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	bountyEvm "github.com/task3-labs/task3-go/pkg/bountyOperator/evm"
	bountyMemory "github.com/task3-labs/task3-go/pkg/bountyOperator/memory"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	dataBadger "github.com/task3-labs/task3-go/pkg/dataOperator/badger"
	dataGithub "github.com/task3-labs/task3-go/pkg/dataOperator/github"
	dataMemory "github.com/task3-labs/task3-go/pkg/dataOperator/memory"
	"github.com/task3-labs/task3-go/pkg/logger"
	"github.com/task3-labs/task3-go/pkg/operatorConfig"
	"github.com/task3-labs/task3-go/pkg/transactionSigner"
	"go.uber.org/zap"
)

func initCmd(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			fmt.Printf("Failed to bind flag '%s': %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(f.Name); err != nil {
			fmt.Printf("Failed to bind env '%s': %+v\n", f.Name, err)
		}
	})
}

func newCmdLogger() (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{Debug: Config.Debug})
}

// buildBountyOperator wires the ledger adapter from config. Simulate swaps in
// the process-local ledger, which only makes sense for single-command demos
// since its state dies with the process.
func buildBountyOperator(cfg *operatorConfig.OperatorConfig, log *zap.Logger) (bountyOperator.IBountyOperator, error) {
	if cfg.Simulate {
		return bountyMemory.NewInMemoryBountyOperator(nil), nil
	}

	contractAddress := cfg.Chain.ContractAddress
	if contractAddress == "" {
		contracts, err := config.GetCoreContractsForChainId(cfg.Chain.ChainID)
		if err != nil {
			return nil, err
		}
		contractAddress = contracts.BountyManager
	}

	ethClient, err := ethclient.Dial(cfg.Chain.RpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc %s: %w", cfg.Chain.RpcURL, err)
	}

	signer, err := transactionSigner.NewPrivateKeySigner(cfg.Chain.PrivateKey, ethClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	return bountyEvm.NewEVMBountyOperator(contractAddress, ethClient, signer, log)
}

// buildDataOperator wires the task store adapter from config. The returned
// close func releases store resources and is a no-op for stateless stores.
func buildDataOperator(cfg *operatorConfig.OperatorConfig, log *zap.Logger) (dataOperator.IDataOperator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DataLayer.Type {
	case operatorConfig.DataLayerTypeMemory:
		return dataMemory.NewInMemoryDataOperator(), noop, nil
	case operatorConfig.DataLayerTypeBadger:
		store, err := dataBadger.NewBadgerDataOperator(&dataBadger.BadgerDataOperatorConfig{
			Dir: cfg.DataLayer.Badger.Dir,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case operatorConfig.DataLayerTypeGithub:
		store, err := dataGithub.NewGithubDataOperator(&dataGithub.GithubDataOperatorConfig{
			Owner: cfg.DataLayer.Github.Owner,
			Repo:  cfg.DataLayer.Github.Repo,
			Token: cfg.DataLayer.Github.Token,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data layer type '%s'", cfg.DataLayer.Type)
	}
}

func buildOperators(cfg *operatorConfig.OperatorConfig, log *zap.Logger) (bountyOperator.IBountyOperator, dataOperator.IDataOperator, func() error, error) {
	bountyOp, err := buildBountyOperator(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	dataOp, closeFn, err := buildDataOperator(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return bountyOp, dataOp, closeFn, nil
}
