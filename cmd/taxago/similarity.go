package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/ioformats"
	"github.com/go-taxago/taxago/internal/ontology"
	"github.com/go-taxago/taxago/internal/simil"
	"github.com/go-taxago/taxago/internal/xerrors"
)

func newSimilarityCmd() *cobra.Command {
	var (
		oboPath        string
		backgroundPath string
		evidence       string
		method         string
		namespace      string
		termA, termB   string
	)
	cmd := &cobra.Command{
		Use:   "similarity",
		Short: "score the semantic similarity between two GO terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			dag, err := loadDag(oboPath)
			if err != nil {
				return err
			}
			ns, ok := ontology.ParseNamespace(namespace)
			if !ok {
				return xerrors.New(xerrors.ConfigError, "namespace", fmt.Errorf("unknown namespace %q", namespace))
			}
			m, ok := simil.ParseMethod(method)
			if !ok {
				return xerrors.New(xerrors.ConfigError, "method", fmt.Errorf("unknown similarity method %q", method))
			}
			a, ok := dag.Lookup(termA)
			if !ok {
				return xerrors.New(xerrors.ConfigError, "term_a", fmt.Errorf("unknown term %q", termA))
			}
			b, ok := dag.Lookup(termB)
			if !ok {
				return xerrors.New(xerrors.ConfigError, "term_b", fmt.Errorf("unknown term %q", termB))
			}

			filter, ok := assoc.NewEvidenceFilter(evidence)
			if !ok {
				return xerrors.New(xerrors.ConfigError, "evidence", fmt.Errorf("unknown evidence filter %q", evidence))
			}
			f, err := os.Open(backgroundPath)
			if err != nil {
				return xerrors.New(xerrors.InputMissing, "background_path", err)
			}
			records, err := ioformats.ParseBackground(f)
			f.Close()
			if err != nil {
				return xerrors.New(xerrors.ParseError, "background_path", err)
			}
			u := assoc.BuildUniverse(dag, records, filter)
			ic := simil.NewICModel(dag, u, ns)

			score := simil.Similarity(m, dag, ic, a, b)
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", score)
			return nil
		},
	}
	cmd.Flags().StringVar(&oboPath, "obo_path", "", "path to the go-basic.obo file")
	cmd.Flags().StringVar(&backgroundPath, "background_path", "", "path to the background annotation file, used to build the information-content model")
	cmd.Flags().StringVar(&evidence, "evidence", "all", "evidence code filter applied when building the information-content model")
	cmd.Flags().StringVar(&method, "method", "resnik", "similarity method: resnik, lin, jiang_conrath, or wang")
	cmd.Flags().StringVar(&namespace, "namespace", "biological_process", "namespace the two terms belong to")
	cmd.Flags().StringVar(&termA, "term_a", "", "first GO term ID")
	cmd.Flags().StringVar(&termB, "term_b", "", "second GO term ID")
	cmd.MarkFlagRequired("obo_path")
	cmd.MarkFlagRequired("background_path")
	cmd.MarkFlagRequired("term_a")
	cmd.MarkFlagRequired("term_b")
	return cmd
}
