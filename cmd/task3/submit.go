package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
)

var submitCmd = &cobra.Command{
	Use:   "submit [task-url]",
	Short: "Upload a deliverable and record it on the bounty",
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

		submissionFile := viper.GetString("file")
		if submissionFile == "" {
			return fmt.Errorf("--file is required")
		}
		submission, err := os.ReadFile(submissionFile)
		if err != nil {
			return fmt.Errorf("failed to read submission file %s: %w", submissionFile, err)
		}

		bountyOp, dataOp, closeFn, err := buildOperators(Config, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		engine := task3Operator.NewTask3Operator(log)
		res, err := engine.Submit(cmd.Context(), bountyOp, dataOp, args[0], submission)
		if err != nil {
			return err
		}

		fmt.Printf("submission published at %s (tx %s)\n", res.SubmissionUrl, res.TxRef)
		return nil
	},
}

func init() {
	submitCmd.Flags().String("file", "", "path to the deliverable file")
}
