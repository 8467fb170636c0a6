// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"stripeql/cli/internal/scan"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// describeCmd shows the schema of one object type.
var describeCmd = &cobra.Command{
	Use:   "describe <object>",
	Short: "Show the columns of an object type",
	Long: `The describe command prints the schema of a single object type: its typed
columns plus the synthetic attrs column carrying the raw upstream JSON.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		obj, err := scan.Builtin().Lookup(args[0])
		if err != nil {
			fmt.Println("Run 'stripeql objects' to list the catalog.")
			return err
		}

		kind := "paginated collection"
		if obj.Singleton {
			kind = "singleton"
		}
		fmt.Printf("%s (%s)\n", obj.Object, kind)
		if len(obj.Pushdown) > 0 {
			fmt.Printf("server-side filters: %s\n", strings.Join(obj.Pushdown, ", "))
		}
		fmt.Println()

		data := pterm.TableData{{"COLUMN", "TYPE"}}
		for _, col := range obj.Columns {
			data = append(data, []string{col.Name, col.Type.String()})
		}
		data = append(data, []string{scan.AttrsColumn, "json"})
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
