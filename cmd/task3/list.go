package main

import (
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/task3-labs/task3-go/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bounties on the ledger",
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

		bountyOp, _, closeFn, err := buildOperators(Config, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		var bounties []*types.Bounty
		sponsor := viper.GetString("sponsor")
		worker := viper.GetString("worker")
		switch {
		case sponsor != "":
			bounties, err = bountyOp.ListBountiesBySponsor(cmd.Context(), sponsor)
		case worker != "":
			bounties, err = bountyOp.ListBountiesByWorker(cmd.Context(), worker)
		default:
			bounties, err = bountyOp.ListBounties(cmd.Context())
		}
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Bounty", "Task", "Status", "Amount", "Asset", "Created"})
		for _, b := range bounties {
			table.Append([]string{
				b.BountyId,
				b.TaskId,
				string(b.Status),
				b.Amount,
				b.Asset,
				b.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().String("sponsor", "", "only bounties funded by this address")
	listCmd.Flags().String("worker", "", "only bounties assigned to this address")
}
