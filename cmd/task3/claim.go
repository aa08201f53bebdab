package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
)

var claimCmd = &cobra.Command{
	Use:   "claim [task-url]",
	Short: "Claim the payout for a confirmed submission",
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
		res, err := engine.Claim(cmd.Context(), bountyOp, dataOp, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("payout of %s %s released (tx %s)\n", res.Amount, res.Asset, res.TxRef)
		return nil
	},
}
