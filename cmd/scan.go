// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"stripeql/cli/internal/config"
	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/httperrors"
	"stripeql/cli/internal/scan"
	"stripeql/cli/internal/stripe"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	scanColumns []string
	scanFilters []string
	scanLimit   int64
	scanOffset  int64
	scanFormat  string
)

// tableCellLimit caps cell width in table output; attrs documents would
// otherwise swallow the terminal.
const tableCellLimit = 80

// scanCmd represents the scan command for ad-hoc reads of a single object
// type without going through the SQL server.
var scanCmd = &cobra.Command{
	Use:   "scan <object>",
	Short: "Fetch rows of an object type and print them",
	Long: `The scan command fetches one object type from the Stripe API and prints
the rows. Filters on fields the list API supports are forwarded upstream;
filters on any other field are applied locally after fetching, so a
filtered scan can read more pages than it prints.

Pagination is driven by --limit and --offset. Without --limit the whole
collection is fetched.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		object := args[0]
		if scanFormat != "table" && scanFormat != "json" {
			return fmt.Errorf("unknown --format %q: use table or json", scanFormat)
		}
		if scanLimit < 0 || scanOffset < 0 {
			return fmt.Errorf("--limit and --offset must not be negative")
		}

		obj, err := scan.Builtin().Lookup(object)
		if err != nil {
			fmt.Println("Run 'stripeql objects' to list the catalog.")
			return err
		}

		quals, err := parseFilters(scanFilters)
		if err != nil {
			return err
		}
		if err := validateFields(obj, scanColumns, quals); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, err := stripe.New(&cfg, apiKeyFlag)
		if err != nil {
			if errors.IsKind(err, errors.Config) {
				fmt.Println("🔒 You're not logged in yet!")
				fmt.Println("   Run 'stripeql login' to get started.")
				return nil
			}
			return err
		}
		urls, err := scan.NewURLBuilder(cfg.APIBaseURL, cfg.PageSize)
		if err != nil {
			return err
		}
		scanner := scan.NewScanner(scan.Builtin(), scan.NewDriver(client, urls))

		var limit *scan.Limit
		if cmd.Flags().Changed("limit") {
			limit = &scan.Limit{Offset: scanOffset, Count: scanLimit}
		}

		// Filter fields must be materialized to be checked locally, so a
		// trimmed column list is widened for the fetch and projected back
		// for display.
		fetchColumns := scanColumns
		if len(fetchColumns) > 0 {
			for _, q := range quals {
				if !slices.Contains(fetchColumns, q.Field) {
					fetchColumns = append(fetchColumns, q.Field)
				}
			}
		}

		stopSpinner := startInlineSpinner(os.Stderr, fmt.Sprintf("Scanning %s", object), []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		err = scanner.Begin(cmd.Context(), object, quals, fetchColumns, limit)
		stopSpinner()
		if err != nil {
			return httperrors.FormatNetworkError(err, fmt.Sprintf("scanning %s", object))
		}
		defer scanner.End()

		var rows []scan.Row
		for {
			row, ok := scanner.Next()
			if !ok {
				break
			}
			rows = append(rows, row)
		}
		rows = applyFilters(rows, quals)
		rows = window(rows, scanOffset, limit)

		headers := headerNames(scanner.Schema(), scanColumns)
		if scanFormat == "json" {
			return printRowsJSON(rows, headers)
		}
		return printRowsTable(rows, headers)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringSliceVar(&scanColumns, "columns", nil, "Comma-separated columns to fetch (default: all schema columns)")
	scanCmd.Flags().StringArrayVar(&scanFilters, "filter", nil, "Equality filter as field=value; repeatable")
	scanCmd.Flags().Int64Var(&scanLimit, "limit", 0, "Maximum number of rows to print")
	scanCmd.Flags().Int64Var(&scanOffset, "offset", 0, "Number of rows to skip")
	scanCmd.Flags().StringVar(&scanFormat, "format", "table", "Output format: table or json")
}

// parseFilters converts field=value pairs into equality quals. Values stay
// strings; the list API compares them server-side as the field's type.
func parseFilters(pairs []string) ([]scan.Qual, error) {
	var quals []scan.Qual
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --filter %q: expected field=value", pair)
		}
		quals = append(quals, scan.Qual{
			Field:    field,
			Operator: "=",
			Value:    scan.StringCell(value),
		})
	}
	return quals, nil
}

// validateFields rejects columns and filter fields the object's schema
// does not carry, so a typo fails here instead of printing empty output.
func validateFields(obj *scan.ObjectSchema, columns []string, quals []scan.Qual) error {
	known := make(map[string]bool, len(obj.Columns)+1)
	for _, name := range obj.ColumnNames() {
		known[name] = true
	}
	known[scan.AttrsColumn] = true

	for _, name := range columns {
		if !known[name] {
			return fmt.Errorf("unknown column %q for %s; run 'stripeql describe %s'", name, obj.Object, obj.Object)
		}
	}
	for _, q := range quals {
		if q.Field == scan.AttrsColumn || !known[q.Field] {
			return fmt.Errorf("unknown filter field %q for %s; run 'stripeql describe %s'", q.Field, obj.Object, obj.Object)
		}
	}
	return nil
}

// applyFilters re-applies every filter locally. Pushdown narrows what the
// API returns, but filters on non-pushdown fields arrive unfiltered.
func applyFilters(rows []scan.Row, quals []scan.Qual) []scan.Row {
	if len(quals) == 0 {
		return rows
	}
	var out []scan.Row
	for _, row := range rows {
		if rowMatches(&row, quals) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row *scan.Row, quals []scan.Qual) bool {
	for _, q := range quals {
		cell, ok := row.Cell(q.Field)
		if !ok {
			return false
		}
		if renderCell(cell) != q.Value.Text() {
			return false
		}
	}
	return true
}

// window trims the fetched rows to the requested offset and count. The
// driver over-fetches whole pages, so this slice is what makes --offset
// and --limit exact.
func window(rows []scan.Row, offset int64, limit *scan.Limit) []scan.Row {
	if offset >= int64(len(rows)) {
		return nil
	}
	rows = rows[offset:]
	if limit != nil && limit.Count < int64(len(rows)) {
		rows = rows[:limit.Count]
	}
	return rows
}

// headerNames picks the display columns: schema order filtered to the
// requested set, attrs last when requested. Cells are looked up by name,
// so the order given to --columns does not matter.
func headerNames(schema *scan.ObjectSchema, requested []string) []string {
	if len(requested) == 0 {
		return schema.ColumnNames()
	}
	want := make(map[string]bool, len(requested))
	for _, c := range requested {
		want[c] = true
	}
	var names []string
	for _, c := range schema.ColumnNames() {
		if want[c] {
			names = append(names, c)
		}
	}
	if want[scan.AttrsColumn] {
		names = append(names, scan.AttrsColumn)
	}
	return names
}

func printRowsTable(rows []scan.Row, headers []string) error {
	data := pterm.TableData{headers}
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, name := range headers {
			cell, _ := row.Cell(name)
			line[i] = truncateCell(renderCell(cell))
		}
		data = append(data, line)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	fmt.Printf("\n(%d rows)\n", len(rows))
	return nil
}

func printRowsJSON(rows []scan.Row, headers []string) error {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]any, len(headers))
		for _, name := range headers {
			cell, _ := row.Cell(name)
			obj[name] = cellJSON(cell)
		}
		out = append(out, obj)
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// renderCell formats a cell for table display and local filter matching.
func renderCell(c scan.Cell) string {
	switch c.Kind() {
	case scan.KindInt64:
		return strconv.FormatInt(c.Int(), 10)
	case scan.KindString:
		return c.Text()
	case scan.KindTimestamp:
		return c.Time().UTC().Format(time.RFC3339)
	case scan.KindJSON:
		return string(c.Raw())
	default:
		return ""
	}
}

// cellJSON maps a cell to its JSON representation; absent cells become null.
func cellJSON(c scan.Cell) any {
	switch c.Kind() {
	case scan.KindInt64:
		return c.Int()
	case scan.KindString:
		return c.Text()
	case scan.KindTimestamp:
		return c.Time().UTC().Format(time.RFC3339)
	case scan.KindJSON:
		return c.Raw()
	default:
		return nil
	}
}

func truncateCell(s string) string {
	runes := []rune(s)
	if len(runes) <= tableCellLimit {
		return s
	}
	return string(runes[:tableCellLimit-3]) + "..."
}
