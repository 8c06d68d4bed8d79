package main

import (
	"fmt"
	"os"
	"time"

	"ckpt-go/internal/app"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ckpt",
	Short: "Working-tree checkpoints for git repositories",
	Long: `ckpt snapshots the modified and untracked files of a git working tree
into timestamped local checkpoints, without creating git commits.`,
	// Any unrecognized or missing verb prints the help text and exits 0.
	// ArbitraryArgs keeps cobra from treating an unknown first argument as
	// an error before RunE gets a chance to show the help.
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Create a checkpoint of modified and untracked files",
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")

		a, err := app.NewApp("Commit")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Commit(message)
		if err != nil {
			return err
		}

		if !res.Created {
			fmt.Println(string(res.Reason) + ".")
			return nil
		}

		color.New(color.FgGreen).Printf("Created checkpoint %s (%d files)\n", res.Timestamp, res.FileCount)
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List checkpoints, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.List()
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No checkpoints found.")
			return nil
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(os.Stdout)
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"NAME", "FILES", "MESSAGE", "CREATED", "SIZE"})
		for _, s := range summaries {
			size := "-"
			if s.ArchiveSize >= 0 {
				size = humanize.Bytes(uint64(s.ArchiveSize))
			}
			tbl.AppendRow(table.Row{s.Name, s.FileCount, s.Message, s.Created, size})
		}
		tbl.Render()
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Restore a checkpoint over the working tree",
	Long: `Restore unpacks the named checkpoint archive over the working tree.
Every file in the checkpoint is written back, overwriting the current
content; files not in the checkpoint are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Restore(args[0])
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Printf("Restored checkpoint %s (%d files)\n", res.Name, len(res.Files))
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the invocation history for this repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := app.NewApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %-8s  %s  %-8s  %s\n",
				op.ID[:8],
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	commitCmd.Flags().StringP("message", "m", "", "Checkpoint message (prompted interactively when omitted)")

	logCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(logCmd)
}
