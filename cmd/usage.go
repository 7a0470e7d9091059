package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accessCmd())
	rootCmd.AddCommand(usageCmd())
}

func accessCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "access",
		Short:   "record one access against a document",
		Example: "docyard access -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			// fire and forget: tracking never fails the caller
			env.usage.RecordAccess(context.Background(), docID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func usageCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "usage",
		Short:   "show the access aggregate for a document",
		Example: "docyard usage -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			rec, err := env.usage.GetUsage(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if rec.AccessCount == 0 {
				logrus.Infof("document %s was never accessed", docID)
				return
			}

			logrus.Infof("document %s: %d accesses, last at %s", docID, rec.AccessCount, rec.LastAccessedAt.Format("2006-01-02 15:04"))
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}
