package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/loader"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index a documentation directory and keep it up to date",
	Long: `Indexes every documentation file under dir, then watches it and
re-indexes pages as they are created, edited or deleted. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&ingestBaseURL, "base-url", "", "derive page URLs from this base instead of file paths")
	watchCmd.Flags().StringVar(&ingestCategory, "category", "", "category to tag pages with")
	watchCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "glob patterns to skip, relative to dir")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", loader.DefaultDebounce, "quiet period before a changed file is re-indexed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := loadEngine(ctx)
	if err != nil {
		return err
	}
	if e.Ingest == nil {
		return errors.New("ingest service not configured")
	}

	l := newLoader(args[0])
	w := loader.NewWatcher(l, watchDebounce)
	defer w.Close()

	// Start watching before the initial load so no edit slips between them.
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	docs, err := l.LoadAll(ctx)
	if err != nil {
		return err
	}
	reports, err := e.Ingest.IngestAll(ctx, docs)
	printReports(cmd, reports)
	if err != nil {
		logger.Warn("initial index incomplete: %v", err)
	}

	sync := newWatchSync(e.Ingest, docs)
	cmd.Printf("Watching %s for changes. Press Ctrl-C to stop.\n", l.Root())
	for change := range changes {
		if msg := sync.apply(ctx, change); msg != "" {
			cmd.Println(msg)
		}
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchSync applies file changes to the index. It remembers which document
// each path produced, since a deleted file can no longer say what URL it had.
type watchSync struct {
	ingest driving.IngestService
	byPath map[string]string
}

func newWatchSync(ingest driving.IngestService, docs []domain.Document) *watchSync {
	s := &watchSync{ingest: ingest, byPath: make(map[string]string, len(docs))}
	for i := range docs {
		if path, ok := docs[i].Metadata[loader.MetaPath].(string); ok {
			s.byPath[path] = docs[i].ID
		}
	}
	return s
}

// apply handles one change and returns a line describing it, or "" when
// nothing changed.
func (s *watchSync) apply(ctx context.Context, change domain.DocumentChange) string {
	switch change.Type {
	case domain.ChangeDeleted:
		id := change.DocumentID
		if known, ok := s.byPath[change.Path]; ok {
			id = known
		}
		delete(s.byPath, change.Path)
		if err := s.ingest.Remove(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ""
			}
			logger.Error("remove %s: %v", change.Path, err)
			return ""
		}
		return fmt.Sprintf("removed %s", change.Path)

	case domain.ChangeCreated, domain.ChangeUpdated:
		if change.Document == nil {
			return ""
		}
		// A page whose URL changed is a new document; drop the old one.
		if old, ok := s.byPath[change.Path]; ok && old != change.Document.ID {
			if err := s.ingest.Remove(ctx, old); err != nil && !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("remove previous version of %s: %v", change.Path, err)
			}
		}
		report, err := s.ingest.Ingest(ctx, change.Document)
		if err != nil {
			logger.Error("index %s: %v", change.Path, err)
			return ""
		}
		s.byPath[change.Path] = report.DocumentID
		return fmt.Sprintf("%s %s (%d chunks)", change.Type, change.Path, report.Chunks)
	}
	return ""
}
