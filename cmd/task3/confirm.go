package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm [task-url]",
	Short: "Confirm a submission and start the cooling period",
	Args:  cobra.ExactArgs(1),
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

		bountyOp, dataOp, closeFn, err := buildOperators(Config, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		engine := task3Operator.NewTask3Operator(log)
		res, err := engine.Confirm(cmd.Context(), bountyOp, dataOp, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("submission confirmed (tx %s)\n", res.TxRef)
		fmt.Printf("payout claimable after %s\n", res.CoolingUntil.UTC().Format(time.RFC3339))
		return nil
	},
}
