package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
)

var acceptCmd = &cobra.Command{
	Use:   "accept [task-url]",
	Short: "Download a task and accept its bounty",
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
		res, err := engine.Accept(cmd.Context(), bountyOp, dataOp, args[0])
		if err != nil {
			return err
		}

		outFile := viper.GetString("out")
		if outFile != "" {
			if err := os.WriteFile(outFile, res.Content, 0644); err != nil {
				return fmt.Errorf("failed to write task content to %s: %w", outFile, err)
			}
			fmt.Printf("task content written to %s\n", outFile)
		} else {
			fmt.Println(string(res.Content))
		}
		fmt.Printf("bounty %s accepted (tx %s)\n", res.BountyId, res.TxRef)
		return nil
	},
}

func init() {
	acceptCmd.Flags().String("out", "", "write task content to this file instead of stdout")
}
