package cmd

import (
	"context"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/service"
	"github.com/docyard/docyard/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(registerDocCmd())
	rootCmd.AddCommand(getDocCmd())
	rootCmd.AddCommand(listDocCmd())
	rootCmd.AddCommand(reviewDocCmd())
	rootCmd.AddCommand(promoteDocCmd())
	rootCmd.AddCommand(demoteDocCmd())
	rootCmd.AddCommand(historyDocCmd())
}

func registerDocCmd() *cobra.Command {
	var docID string
	var title string
	var category string
	var priority string
	var living bool
	var frequencyDays int

	var required = []string{"title", "frequency"}

	command := &cobra.Command{
		Use:     "register",
		Short:   "register a document",
		Long:    `register a document into the corpus as active or living`,
		Example: "docyard register -d <doc-id> -t <title> -f 14 -c runbooks -p high --living",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			env := newEnv()
			defer env.close()

			lifecycle := model.LifecycleActive
			if living {
				lifecycle = model.LifecycleLiving
			}

			doc, err := env.registry.Register(context.Background(), &model.Document{
				ID:                  docID,
				Title:               title,
				Category:            category,
				Priority:            model.Priority(priority),
				LifecycleType:       lifecycle,
				ReviewFrequencyDays: frequencyDays,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document registered with id: %s", doc.ID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (generated when omitted)")
	command.Flags().StringVarP(&title, "title", "t", "", "title of the document (required)")
	command.Flags().IntVarP(&frequencyDays, "frequency", "f", 0, "review frequency in days (required)")
	command.Flags().StringVarP(&category, "category", "c", "", "category/area grouping")
	command.Flags().StringVarP(&priority, "priority", "p", "medium", "priority: high, medium or low")
	command.Flags().BoolVar(&living, "living", false, "register as a living document")

	command.Flags().SortFlags = false

	return command
}

func getDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a document",
		Example: "docyard get -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			doc, err := env.registry.Get(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func listDocCmd() *cobra.Command {
	var lifecycle string
	var status string
	var category string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list documents",
		Example: "docyard list -l active -s needs_review -c runbooks",
		Run: func(cmd *cobra.Command, args []string) {
			env := newEnv()
			defer env.close()

			docs, err := env.registry.Find(context.Background(), store.DocumentFilter{
				LifecycleType: model.LifecycleType(lifecycle),
				Status:        model.Status(status),
				Category:      category,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocumentList(docs)
		},
	}

	command.Flags().StringVarP(&lifecycle, "lifecycle", "l", "", "filter by lifecycle type")
	command.Flags().StringVarP(&status, "status", "s", "", "filter by status")
	command.Flags().StringVarP(&category, "category", "c", "", "filter by category")

	return command
}

func reviewDocCmd() *cobra.Command {
	var docID string
	var reviewer string
	var notes string
	var changes bool
	var version int64

	var required = []string{"doc-id", "reviewer", "version"}

	command := &cobra.Command{
		Use:     "review",
		Short:   "mark a document reviewed",
		Example: "docyard review -d <doc-id> -r alice -n \"updated links\" --changes -V 3",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			env := newEnv()
			defer env.close()

			doc, err := env.registry.MarkReviewed(context.Background(), docID, service.Review{
				ReviewedBy:  reviewer,
				ChangesMade: changes,
				Notes:       notes,
			}, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("review %d recorded, next review due %s", doc.ReviewCount, doc.NextReviewDate.Format("2006-01-02"))
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&reviewer, "reviewer", "r", "", "who performed the review (required)")
	command.Flags().Int64VarP(&version, "version", "V", 0, "last observed document version (required)")
	command.Flags().StringVarP(&notes, "notes", "n", "", "review notes")
	command.Flags().BoolVar(&changes, "changes", false, "the review changed the document")

	command.Flags().SortFlags = false

	return command
}

func promoteDocCmd() *cobra.Command {
	var docID string
	var version int64

	command := &cobra.Command{
		Use:     "promote",
		Short:   "promote a document to the living tier",
		Example: "docyard promote -d <doc-id> -V 3",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id", "version"}) {
				return
			}

			env := newEnv()
			defer env.close()

			doc, err := env.registry.Promote(context.Background(), docID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s is now %s", doc.ID, doc.LifecycleType)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().Int64VarP(&version, "version", "V", 0, "last observed document version (required)")

	return command
}

func demoteDocCmd() *cobra.Command {
	var docID string
	var version int64

	command := &cobra.Command{
		Use:     "demote",
		Short:   "demote a document back to the active tier",
		Example: "docyard demote -d <doc-id> -V 3",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id", "version"}) {
				return
			}

			env := newEnv()
			defer env.close()

			doc, err := env.registry.Demote(context.Background(), docID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s is now %s", doc.ID, doc.LifecycleType)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().Int64VarP(&version, "version", "V", 0, "last observed document version (required)")

	return command
}

func historyDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "history",
		Short:   "show a document's review history",
		Example: "docyard history -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			records, err := env.registry.ReviewHistory(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			for _, rec := range records {
				changed := "no changes"
				if rec.ChangesMade {
					changed = "changed"
				}
				logrus.Infof("%s reviewed by %s (%s): %s", rec.ReviewedAt.Format("2006-01-02"), rec.ReviewedBy, changed, rec.Notes)
			}
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}
