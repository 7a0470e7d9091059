package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docyard/docyard/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(archiveCmd())
	rootCmd.AddCommand(restoreCmd())
}

func scoreCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "score",
		Short:   "score one document for archival",
		Example: "docyard score -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			ctx := context.Background()
			doc, err := env.registry.Get(ctx, docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			assessment, err := env.scanner.ScoreDocument(ctx, doc, time.Now())
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("%s scores %.2f (%s): %s", assessment.DocumentID, assessment.Score, recommendationLabel(assessment.Recommendation), assessment.Reason)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func scanCmd() *cobra.Command {
	var fromPage int

	command := &cobra.Command{
		Use:     "scan",
		Short:   "scan the corpus for archival candidates",
		Example: "docyard scan --from-page 3",
		Run: func(cmd *cobra.Command, args []string) {
			env := newEnv()
			defer env.close()

			report, err := env.scanner.Resume(context.Background(), time.Now(), fromPage)
			if err != nil {
				logrus.Errorf("scan aborted after page %d: %v", report.LastPage, err)
				return
			}

			logrus.Infof("%d documents scanned", report.Scanned)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Score", "Recommendation", "Reason"})
			for _, a := range report.Assessments {
				if a.Recommendation == service.RecommendKeep {
					continue
				}
				table.Append([]string{
					a.DocumentID,
					fmt.Sprintf("%.2f", a.Score),
					recommendationLabel(a.Recommendation),
					a.Reason,
				})
			}
			table.Render()
		},
	}

	command.Flags().IntVar(&fromPage, "from-page", 0, "resume an interrupted scan from this page")

	return command
}

func archiveCmd() *cobra.Command {
	var docID string
	var reason string
	var archivedBy string
	var replacementID string
	var locationRef string
	var version int64

	var required = []string{"doc-id", "reason", "by", "version"}

	command := &cobra.Command{
		Use:     "archive",
		Short:   "archive a document",
		Example: "docyard archive -d old-guide -r \"superseded\" -b alice -R new-guide -V 4",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			env := newEnv()
			defer env.close()

			record, err := env.archive.Archive(context.Background(), docID, service.ArchiveRequest{
				Reason:        reason,
				ArchivedBy:    archivedBy,
				ReplacementID: replacementID,
				LocationRef:   locationRef,
			}, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s archived at %s", docID, record.ArchivedAt.Format(time.RFC3339))
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&reason, "reason", "r", "", "why the document is being archived (required)")
	command.Flags().StringVarP(&archivedBy, "by", "b", "", "who is archiving (required)")
	command.Flags().Int64VarP(&version, "version", "V", 0, "last observed document version (required)")
	command.Flags().StringVarP(&replacementID, "replacement", "R", "", "document replacing this one")
	command.Flags().StringVarP(&locationRef, "location", "L", "", "where the archived body now lives")

	command.Flags().SortFlags = false

	return command
}

func restoreCmd() *cobra.Command {
	var docID string
	var version int64

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore an archived document",
		Example: "docyard restore -d <doc-id> -V 5",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id", "version"}) {
				return
			}

			env := newEnv()
			defer env.close()

			doc, err := env.archive.Restore(context.Background(), docID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s restored, next review due %s", doc.ID, doc.NextReviewDate.Format("2006-01-02"))
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().Int64VarP(&version, "version", "V", 0, "last observed document version (required)")

	return command
}

func recommendationLabel(r service.Recommendation) string {
	switch r {
	case service.RecommendCandidate:
		return color.RedString(string(r))
	case service.RecommendBorderline:
		return color.YellowString(string(r))
	default:
		return color.GreenString(string(r))
	}
}
