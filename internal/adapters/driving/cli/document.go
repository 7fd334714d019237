package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, view, open or remove indexed documentation pages.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Show how a document was chunked",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var documentOpenCmd = &cobra.Command{
	Use:   "open [doc-id]",
	Short: "Open document in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentOpen,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentOpenCmd)
	rootCmd.AddCommand(documentCmd)
}

func documentService(cmd *cobra.Command) (driving.DocumentService, error) {
	e, err := loadEngine(cmd.Context())
	if err != nil {
		return nil, err
	}
	if e.Document == nil {
		return nil, errors.New("document service not configured")
	}
	return e.Document, nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	svc, err := documentService(cmd)
	if err != nil {
		return err
	}

	docs, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].URL != "" {
			cmd.Printf("    URL:   %s\n", docs[i].URL)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	svc, err := documentService(cmd)
	if err != nil {
		return err
	}

	doc, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	chunks, err := svc.Chunks(cmd.Context(), doc.ID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  URL:      %s\n", doc.URL)
	cmd.Printf("  Chunks:   %d\n", len(chunks))
	if !doc.UpdatedAt.IsZero() {
		cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("  Indexed:  %s\n", doc.IndexedAt.Local().Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Println("\n  Metadata:")
		for _, k := range keys {
			cmd.Printf("    %s: %v\n", k, doc.Metadata[k])
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	svc, err := documentService(cmd)
	if err != nil {
		return err
	}

	doc, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(renderMarkdown(doc.Content, terminalWidth(cmd.OutOrStdout())))
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	svc, err := documentService(cmd)
	if err != nil {
		return err
	}

	chunks, err := svc.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	for _, c := range chunks {
		cmd.Printf("--- %s  bytes %d-%d  tokens %d  overlap %d\n", c.ID, c.Start, c.End, c.TokenCount, c.Overlap)
		cmd.Println(c.Content)
		cmd.Println()
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	if e.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	if err := e.Ingest.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Document %s removed from index.\n", args[0])
	return nil
}

func runDocumentOpen(cmd *cobra.Command, args []string) error {
	svc, err := documentService(cmd)
	if err != nil {
		return err
	}

	if err := svc.Open(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	cmd.Printf("Opened document %s.\n", args[0])
	return nil
}
