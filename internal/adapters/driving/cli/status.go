package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	Long:  `Shows how many documents and chunks are indexed and whether the embedding and generation providers respond.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	e, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	if e.Status == nil {
		return errors.New("status service not configured")
	}

	status, err := e.Status.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	cmd.Println("Index Status")
	cmd.Println("============")
	cmd.Printf("  Documents:    %d\n", status.Documents)
	cmd.Printf("  Chunks:       %d\n", status.Chunks)
	cmd.Printf("  Dimensions:   %d\n", status.Dimensions)
	cmd.Printf("  Vector index: %s\n", status.IndexKind)
	if !status.LastUpdated.IsZero() {
		cmd.Printf("  Updated:      %s\n", status.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	}
	cmd.Println()
	cmd.Println("Providers")
	cmd.Println("=========")
	cmd.Printf("  Embedding:  %s (%s)\n", status.EmbeddingModel, reachability(status.EmbeddingReachable))
	if status.GenerationModel != "" {
		cmd.Printf("  Generation: %s (%s)\n", status.GenerationModel, reachability(status.GenerationReachable))
	} else {
		cmd.Println("  Generation: not configured (answers are retrieval-only)")
	}
	cmd.Println()

	if status.Ready() {
		cmd.Println("Ready.")
	} else if status.Chunks == 0 {
		cmd.Println("Nothing indexed yet. Run 'fsquery ingest <path>' to add documentation.")
	} else {
		cmd.Println("Embedding provider unreachable. Run 'fsquery settings check'.")
	}
	return nil
}

func reachability(ok bool) string {
	if ok {
		return "reachable"
	}
	return "unreachable"
}
