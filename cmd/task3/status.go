package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/task3-labs/task3-go/pkg/task3Operator"
)

var statusCmd = &cobra.Command{
	Use:   "status [task-url]",
	Short: "Show the metadata and live bounty state for a task",
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
		res, err := engine.Status(cmd.Context(), bountyOp, dataOp, args[0])
		if err != nil {
			return err
		}

		md := res.Metadata
		fmt.Printf("task:       %s\n", md.TaskId)
		fmt.Printf("hash:       %s\n", md.TaskHash)
		fmt.Printf("chain:      %s/%s\n", md.Chain.Name, md.Chain.Network)
		if md.DataLayer.SubmissionUrl != "" {
			fmt.Printf("submission: %s\n", md.DataLayer.SubmissionUrl)
		}

		if res.Bounty == nil {
			fmt.Println("bounty:     not published")
			return nil
		}

		fmt.Printf("bounty:     %s (%s)\n", res.Bounty.BountyId, res.Bounty.Status)
		fmt.Printf("reward:     %s %s\n", res.Bounty.Amount, res.Bounty.Asset)
		if res.Bounty.CoolingUntil != nil {
			fmt.Printf("claimable:  %s\n", res.Bounty.CoolingUntil.UTC().Format(time.RFC3339))
		}
		return nil
	},
}
