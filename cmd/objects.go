// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"
	"strings"

	"stripeql/cli/internal/scan"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// objectsCmd lists the object catalog: every Stripe object type that can
// be scanned, served or synced.
var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List the scannable Stripe object types",
	Long: `The objects command prints the object catalog. Each entry is one Stripe
object type exposed as a table, together with the filters the Stripe list
API accepts for it. Filters on any other column are applied locally after
fetching.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"OBJECT", "LOCATOR", "COLUMNS", "SERVER-SIDE FILTERS", "KIND"}}
		for _, obj := range scan.Builtin().Objects() {
			kind := "collection"
			if obj.Singleton {
				kind = "singleton"
			}
			pushdown := strings.Join(obj.Pushdown, ", ")
			if pushdown == "" {
				pushdown = "-"
			}
			data = append(data, []string{
				obj.Object,
				obj.Key,
				strconv.Itoa(len(obj.Columns) + 1), // schema columns plus attrs
				pushdown,
				kind,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(objectsCmd)
}
