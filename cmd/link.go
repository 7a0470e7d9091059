package cmd

import (
	"context"

	"github.com/docyard/docyard/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "manage relationship edges between documents",
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	linkCmd.AddCommand(addLinkCmd())
	linkCmd.AddCommand(listLinksCmd())
	linkCmd.AddCommand(resolveLinkCmd())
}

func addLinkCmd() *cobra.Command {
	var from string
	var to string
	var edgeType string

	var required = []string{"from", "to", "type"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "add a typed edge between two documents",
		Example: "docyard link add -f new-guide -o old-guide -y replaces",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			env := newEnv()
			defer env.close()

			edge, err := env.graph.AddEdge(context.Background(), from, to, model.EdgeType(edgeType))
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("edge added: %s -[%s]-> %s", edge.FromID, edge.Type, edge.ToID)
		},
	}

	command.Flags().StringVarP(&from, "from", "f", "", "source document id (required)")
	command.Flags().StringVarP(&to, "to", "o", "", "target document id (required)")
	command.Flags().StringVarP(&edgeType, "type", "y", "", "edge type: replaces, references, extends or archived_by (required)")

	command.Flags().SortFlags = false

	return command
}

func listLinksCmd() *cobra.Command {
	var docID string
	var incoming bool

	command := &cobra.Command{
		Use:     "list",
		Short:   "list edges from (or to) a document",
		Example: "docyard link list -d <doc-id> --incoming",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			var edges []*model.RelationshipEdge
			var err error
			if incoming {
				edges, err = env.graph.EdgesTo(context.Background(), docID)
			} else {
				edges, err = env.graph.EdgesFrom(context.Background(), docID)
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			for _, edge := range edges {
				logrus.Infof("%s -[%s]-> %s", edge.FromID, edge.Type, edge.ToID)
			}
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().BoolVar(&incoming, "incoming", false, "list edges pointing at the document instead")

	return command
}

func resolveLinkCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "resolve",
		Short:   "resolve the live replacement for a document",
		Example: "docyard link resolve -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"doc-id"}) {
				return
			}

			env := newEnv()
			defer env.close()

			target, err := env.graph.ResolveReplacement(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if target == docID {
				logrus.Infof("document %s has no replacement", docID)
				return
			}

			logrus.Infof("document %s is replaced by %s", docID, target)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}
