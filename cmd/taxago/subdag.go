package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-taxago/taxago/internal/ontology"
	"github.com/go-taxago/taxago/internal/subdag"
	"github.com/go-taxago/taxago/internal/xerrors"
)

func newSubdagCmd() *cobra.Command {
	var (
		oboPath string
		terms   string
	)
	cmd := &cobra.Command{
		Use:   "subdag",
		Short: "extract the common-ancestor sub-DAG induced by a set of GO terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			dag, err := loadDag(oboPath)
			if err != nil {
				return err
			}

			var ids []ontology.ID
			for _, s := range strings.Split(terms, ",") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				id, ok := dag.Lookup(s)
				if !ok {
					return xerrors.New(xerrors.ConfigError, "terms", fmt.Errorf("unknown term %q", s))
				}
				ids = append(ids, id)
			}

			result := subdag.Extract(dag, ids)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "all:")
			for _, id := range dag.StringIDs(result.All) {
				fmt.Fprintf(out, "\t%s\n", id)
			}
			fmt.Fprintln(out, "first:")
			for _, id := range dag.StringIDs(result.First) {
				fmt.Fprintf(out, "\t%s\n", id)
			}
			fmt.Fprintln(out, "edges:")
			for _, e := range result.Edges {
				fmt.Fprintf(out, "\t%s --%s--> %s\n", dag.Term(e.Child).StringID, e.Kind, dag.Term(e.Parent).StringID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&oboPath, "obo_path", "", "path to the go-basic.obo file")
	cmd.Flags().StringVar(&terms, "terms", "", "comma-separated list of GO term IDs")
	cmd.MarkFlagRequired("obo_path")
	cmd.MarkFlagRequired("terms")
	return cmd
}
