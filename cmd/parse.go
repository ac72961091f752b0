package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gnolang/dynfinder/repository"
)

type parseOptions struct {
	properties []string
	args       []string
	entity     string
	json       bool
}

// newParseCmd: dynfinder parse METHOD
func newParseCmd(opts *options) *cobra.Command {
	po := &parseOptions{}

	parseCmd := &cobra.Command{
		Use:   "parse METHOD",
		Short: "Parse a single method name and print its query",
		Example: `  dynfinder parse findByNameAndAgeGreaterThan -p name,age -a name,age
  dynfinder parse getTop3OrderByAgeDesc -p name,age --entity Person --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := repository.Repository{Entity: po.entity, Properties: po.properties}
			method := repository.Method{Name: args[0], Arguments: po.args}

			d := repository.NewDeriver(repository.WithLogger(opts.logger))
			res := d.Derive(repo, method)
			return printResults(cmd.OutOrStdout(), []repository.Result{res}, po.json, false)
		},
	}

	parseCmd.Flags().StringSliceVarP(&po.properties, "properties", "p", nil, "Comma-separated entity property names")
	parseCmd.Flags().StringSliceVarP(&po.args, "args", "a", nil, "Comma-separated method argument names")
	parseCmd.Flags().StringVar(&po.entity, "entity", "Entity", "Entity name used in the statement")
	parseCmd.Flags().BoolVar(&po.json, "json", false, "Output the result in JSON format")
	_ = parseCmd.MarkFlagRequired("properties")

	return parseCmd
}
