package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

var (
	queryTopN     int
	queryAlpha    float64
	queryJSON     bool
	queryExamples bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a question from the documentation",
	Long: `Answers a natural-language question from the indexed documentation.

The question is embedded, the closest documentation chunks are retrieved
and an answer is generated from them with citations. Without a configured
LLM the closest excerpts are shown instead.

Examples:
  fsquery query "How do I create a ticket using the API?"
  fsquery query -n 3 --json "What are the API rate limits?"
  fsquery query --examples`,
	Args: func(cmd *cobra.Command, args []string) error {
		if queryExamples {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopN, "top", "n", 0, "number of excerpts to retrieve (default from settings)")
	queryCmd.Flags().Float64Var(&queryAlpha, "alpha", 1, "weight of vector similarity against keyword overlap, 0 to 1")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	queryCmd.Flags().BoolVar(&queryExamples, "examples", false, "list example questions")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryExamples {
		writeExamples(cmd.OutOrStdout())
		return nil
	}

	text := strings.Join(args, " ")
	opts := domain.QueryOptions{TopN: queryTopN}
	if cmd.Flags().Changed("alpha") {
		alpha := queryAlpha
		opts.Alpha = &alpha
	}

	result, err := answer(cmd, text, opts)
	if err != nil {
		if queryJSON {
			return writeJSONError(cmd.OutOrStdout(), err)
		}
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	writeResult(cmd.OutOrStdout(), result, terminalWidth(cmd.OutOrStdout()))
	return nil
}

func answer(cmd *cobra.Command, text string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	e, err := loadEngine(cmd.Context())
	if err != nil {
		return nil, err
	}
	if e.Query == nil {
		return nil, errors.New("query service not configured")
	}
	return e.Query.Query(cmd.Context(), text, opts)
}
