package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func checkMissingFlags(cmd *cobra.Command, required []string) bool {
	var missing []string
	for _, name := range required {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		logrus.Errorf("missing required flags: %s", strings.Join(missing, ", "))
		return true
	}

	return false
}

func printDocument(doc *model.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"ID", doc.ID})
	table.Append([]string{"Title", doc.Title})
	table.Append([]string{"Lifecycle", lifecycleLabel(doc.LifecycleType)})
	table.Append([]string{"Status", string(doc.Status)})
	table.Append([]string{"Category", doc.Category})
	table.Append([]string{"Priority", string(doc.Priority)})
	table.Append([]string{"Review every", fmt.Sprintf("%dd", doc.ReviewFrequencyDays)})
	table.Append([]string{"Last reviewed", doc.LastReviewedAt.Format(time.RFC3339)})
	table.Append([]string{"Next review", doc.NextReviewDate.Format(time.RFC3339)})
	table.Append([]string{"Reviews", fmt.Sprintf("%d", doc.ReviewCount)})
	table.Append([]string{"Version", fmt.Sprintf("%d", doc.Version)})
	table.Render()
}

func printDocumentList(docs []*model.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Lifecycle", "Status", "Priority", "Next review"})
	for _, doc := range docs {
		table.Append([]string{
			doc.ID,
			doc.Title,
			lifecycleLabel(doc.LifecycleType),
			string(doc.Status),
			string(doc.Priority),
			doc.NextReviewDate.Format("2006-01-02"),
		})
	}
	table.Render()
}

func lifecycleLabel(t model.LifecycleType) string {
	switch t {
	case model.LifecycleLiving:
		return color.GreenString(string(t))
	case model.LifecycleArchived:
		return color.RedString(string(t))
	default:
		return string(t)
	}
}
