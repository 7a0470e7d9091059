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
	rootCmd.AddCommand(dueCmd())
}

func dueCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "due",
		Short:   "list documents due for review",
		Example: "docyard due",
		Run: func(cmd *cobra.Command, args []string) {
			env := newEnv()
			defer env.close()

			asOf := time.Now()
			docs, err := env.scheduler.DueForReview(context.Background(), asOf)
			if err != nil {
				logrus.Error(err)
				return
			}

			if len(docs) == 0 {
				logrus.Info("nothing due for review")
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Priority", "Overdue"})
			for _, doc := range docs {
				overdue := fmt.Sprintf("%dd", service.DaysOverdue(doc, asOf))
				if service.DaysOverdue(doc, asOf) > doc.ReviewFrequencyDays {
					overdue = color.RedString(overdue)
				}
				table.Append([]string{doc.ID, doc.Title, string(doc.Priority), overdue})
			}
			table.Render()
		},
	}

	return command
}
