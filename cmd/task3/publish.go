package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
	"github.com/task3-labs/task3-go/pkg/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a task and create its bounty",
	RunE: func(cmd *cobra.Command, args []string) error {
		initCmd(cmd)

		log, err := newCmdLogger()
		if err != nil {
			return err
		}
		sugar := log.Sugar()

		if err := Config.Validate(); err != nil {
			sugar.Errorw("Invalid configuration", "error", err)
			return err
		}

		contentFile := viper.GetString("file")
		amount := viper.GetString("amount")
		asset := viper.GetString("asset")
		workflow := viper.GetString("workflow")
		adapter := viper.GetString("adapter")
		if contentFile == "" {
			return fmt.Errorf("--file is required")
		}
		if amount == "" || asset == "" {
			return fmt.Errorf("--amount and --asset are required")
		}

		content, err := os.ReadFile(contentFile)
		if err != nil {
			return fmt.Errorf("failed to read task file %s: %w", contentFile, err)
		}

		bountyOp, dataOp, closeFn, err := buildOperators(Config, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		engine := task3Operator.NewTask3Operator(log)
		res, err := engine.Publish(cmd.Context(), bountyOp, dataOp, &task3Operator.PublishParams{
			Content: content,
			Metadata: &types.TaskMetadata{
				Chain: types.ChainMetadata{
					Name:            Config.Chain.Name,
					Network:         Config.Chain.Network,
					ContractAddress: Config.Chain.ContractAddress,
				},
				Workflow: types.WorkflowMetadata{
					Name:    workflow,
					Adapter: adapter,
				},
			},
			Amount: amount,
			Asset:  asset,
		})
		if err != nil {
			return err
		}

		if res.IsNew {
			fmt.Printf("published task %s\n", res.TaskUrl)
			fmt.Printf("bounty %s created (tx %s)\n", res.BountyId, res.TxRef)
		} else {
			fmt.Printf("task already published at %s (bounty %s)\n", res.TaskUrl, res.BountyId)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().String("file", "", "path to the task content file")
	publishCmd.Flags().String("amount", "", "bounty amount in the asset's smallest unit")
	publishCmd.Flags().String("asset", "", "bounty asset symbol")
	publishCmd.Flags().String("workflow", "", "workflow name recorded in metadata")
	publishCmd.Flags().String("adapter", "", "workflow adapter recorded in metadata")
}
