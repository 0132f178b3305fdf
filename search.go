package main

import (
	"os"

	"flyerhunt/pkg/config"
	"flyerhunt/pkg/deals"
	"flyerhunt/pkg/render"

	"github.com/spf13/cobra"
)

var (
	searchZip    string
	searchStores string
	searchLimit  int
	searchJSON   bool
	searchChart  string
	searchFresh  bool
)

func init() {
	searchCmd.Flags().StringVar(&searchZip, "zip", "", "postal code (4-6 digits, default from preferences)")
	searchCmd.Flags().StringVar(&searchStores, "stores", "", "comma-separated store name filter (default from preferences, empty disables)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of deals to print (1-100)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print a JSON envelope instead of a table")
	searchCmd.Flags().StringVar(&searchChart, "chart", "", "also write an HTML bar chart to this file")
	searchCmd.Flags().BoolVar(&searchFresh, "fresh", false, "bypass the search response cache")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query> [query2 ...]",
	Short: "Search flyer offers for one or more terms and rank them by EUR/L.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		prefs := config.NewStore(config.PrefsPath()).Load()

		zip := searchZip
		if zip == "" {
			zip = prefs.DefaultZip
		}
		stores := prefs.DefaultStores
		if cmd.Flags().Changed("stores") {
			stores = config.ParseList(searchStores)
		}

		client, cleanup := newClient(searchFresh)
		defer cleanup()

		agg, err := deals.Aggregate(cmd.Context(), client, args, zip, stores, searchLimit)
		if err != nil {
			return err
		}

		if searchChart != "" {
			if err := render.Chart(searchChart, agg.Deals); err != nil {
				return err
			}
		}

		if searchJSON {
			return render.JSON(os.Stdout, render.Meta{
				Queries:         args,
				ZipCode:         zip,
				Stores:          stores,
				TotalRawResults: agg.TotalRawResults,
				Returned:        len(agg.Deals),
			}, agg.Deals)
		}

		render.Table(os.Stdout, agg.Deals)
		return nil
	},
}
