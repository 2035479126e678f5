package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/casefile"
	"github.com/caselens/rfescope/internal/rules"
)

var rulesFlags struct {
	visa string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rule inventory",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFlags.visa, "visa", "", "Filter by visa type (e.g. H1B)")
}

func runRules(cmd *cobra.Command, _ []string) error {
	if _, _, err := setup(); err != nil {
		return err
	}

	var list []rules.Rule
	if rulesFlags.visa != "" {
		list = rules.ForVisaType(casefile.VisaType(strings.ToUpper(rulesFlags.visa)))
	} else {
		list = rules.All()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tCATEGORY\tVISAS\tTITLE")
	for _, r := range list {
		vts := make([]string, 0, len(r.VisaTypes))
		for _, vt := range r.VisaTypes {
			vts = append(vts, string(vt))
		}
		visas := strings.Join(vts, ",")
		if len(vts) == len(casefile.AllVisaTypes()) {
			visas = "all"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Severity, r.Category, visas, r.Title)
	}
	return tw.Flush()
}
