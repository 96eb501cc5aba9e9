package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"farm-assist-go/pkg/advisor"

	"github.com/spf13/cobra"
)

func newTopicsCmd(app *App) *cobra.Command {
	var showRules bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List advisor topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showRules {
				return printRules(app)
			}
			for _, t := range advisor.AllTopics() {
				fmt.Fprintln(app.Out, t)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRules, "rules", false, "Show keyword rules in match order")
	return cmd
}

func printRules(app *App) error {
	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOPIC\tPARENT\tKEYWORDS")
	for _, r := range advisor.Rules() {
		keywords := strings.Join(r.Keywords, ", ")
		if keywords == "" {
			keywords = "(default)"
		}
		parent := r.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Topic, parent, keywords)
	}
	return w.Flush()
}
