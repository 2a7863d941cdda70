package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iloveparkjisung/Database-Assesment/pkg/config"
	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
	"github.com/iloveparkjisung/Database-Assesment/pkg/render"
)

var (
	strictFlag bool
	fieldFlags []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every record of the tracker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		res, err := trackerSpec.ShowAll(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", trackerSpec.Plural, err)
		}
		if res.Empty() {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found in the database.\n", trackerSpec.Plural)
			return nil
		}
		return render.Table(cmd.OutOrStdout(), res)
	},
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the filters of the tracker and the values they accept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		res := records.Result{Columns: []string{"key", "label", "values"}, Rows: [][]string{}}
		for _, f := range trackerSpec.Filters {
			values := f.Hint
			if values == "" {
				opts, err := f.Options(cmd.Context(), dbConn)
				if err != nil {
					return fmt.Errorf("failed to list values for %s: %w", f.Key, err)
				}
				values = strings.Join(opts, ", ")
			}
			res.Rows = append(res.Rows, []string{f.Key, f.Label, values})
		}
		return render.Table(cmd.OutOrStdout(), res)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter <key> <value>",
	Short: "Show the records matching one filter value",
	Long: `Runs one of the tracker's canned filters, for example:

  tracker --tracker drama filter country "South Korea"
  tracker --tracker kpop filter height 180

Lookup values are matched ignoring case. A value that matches nothing prints
an empty result unless --strict is given.`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: completeFilterKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := trackerSpec.Filter(args[0])
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		value := args[1]
		if strictFlag {
			value, err = f.Validate(cmd.Context(), dbConn, value)
			if errors.Is(err, records.ErrLookupNotFound) || errors.Is(err, records.ErrInvalidField) {
				return fmt.Errorf("unable to find %q for %s", args[1], strings.ToLower(f.Label))
			}
			if err != nil {
				return err
			}
		}

		res, err := trackerSpec.FilterBy(cmd.Context(), dbConn, f, value)
		if err != nil {
			return fmt.Errorf("failed to filter %s: %w", trackerSpec.Plural, err)
		}
		if res.Empty() {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found for %s %s.\n", trackerSpec.Plural, strings.ToLower(f.Label), value)
			return nil
		}
		return render.Table(cmd.OutOrStdout(), res)
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the saved views of the tracker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := records.Result{Columns: []string{"name", "label"}, Rows: [][]string{}}
		for _, v := range trackerSpec.Views {
			res.Rows = append(res.Rows, []string{v.Name, v.Label})
		}
		return render.Table(cmd.OutOrStdout(), res)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <name>",
	Short: "Show the rows of a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if v, ok := trackerSpec.View(name); ok {
			name = v.Name
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		res, err := records.ViewQuery(cmd.Context(), dbConn, name)
		if err != nil {
			return err
		}
		if res.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		return render.Table(cmd.OutOrStdout(), res)
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record to the tracker",
	Long: `Adds one record from --field key=value pairs, for example:

  tracker --tracker contacts add --field name=Jisung --field email=jisung@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vals, err := parseFields(trackerSpec.Form, fieldFlags)
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		msg, err := trackerSpec.Form.Submit(cmd.Context(), dbConn, vals)
		if err != nil {
			return err
		}
		logger.Printf("[INFO] %s\n", msg)
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

// completeFilterKeys offers the filter keys of the tracker the command would
// run against, resolved from flags and environment like setup does.
func completeFilterKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	t, err := records.Get(c.Tracker)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	keys := make([]string, len(t.Filters))
	for i, f := range t.Filters {
		keys[i] = f.Key
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// parseFields turns key=value pairs into form values, rejecting keys the
// form does not have.
func parseFields(form records.Form, pairs []string) (records.Values, error) {
	known := make(map[string]bool, len(form.Fields))
	for _, f := range form.Fields {
		known[f.Key] = true
	}

	vals := records.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		if !known[key] {
			return nil, fmt.Errorf("unknown field %q for %s", key, strings.ToLower(form.Title))
		}
		vals[key] = strings.TrimSpace(value)
	}
	return vals, nil
}

func formKeys(form records.Form) string {
	keys := make([]string, len(form.Fields))
	for i, f := range form.Fields {
		keys[i] = f.Key
	}
	return strings.Join(keys, ", ")
}

func initRecordsCmd() {
	filterCmd.Flags().BoolVar(&strictFlag, "strict", false, "Fail when the value is not one the filter accepts")

	var usage []string
	for _, t := range records.All() {
		usage = append(usage, fmt.Sprintf("%s: %s", t.Name, formKeys(t.Form)))
	}
	addCmd.Flags().StringArrayVarP(&fieldFlags, "field", "f", nil, "Field value as key=value ("+strings.Join(usage, "; ")+")")
}
