package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vinayprograms/resumerag/client"
)

var indexCmd = &cobra.Command{
	Use:   "index FILE...",
	Short: "Upload resumes (PDF, DOCX or TXT) to the service",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := client.New(cfg.BackendURL).IndexFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		if failed := renderFileResults(cmd.OutOrStdout(), results); failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

var queryTopK int

var queryCmd = &cobra.Command{
	Use:   "query JOB_DESCRIPTION...",
	Short: "Rank indexed resumes against a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := client.New(cfg.BackendURL).Query(cmd.Context(), strings.Join(args, " "), queryTopK)
		if err != nil {
			return err
		}
		renderResults(cmd.OutOrStdout(), results)
		return nil
	},
}

var (
	listContains string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed resumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := client.New(cfg.BackendURL).List(cmd.Context(), listContains, listLimit)
		if err != nil {
			return err
		}
		renderEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of resumes to return (service default 3)")
	listCmd.Flags().StringVar(&listContains, "contains", "", "only resumes mentioning this keyword")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum entries, 0 for all")
}
