package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/internal/httpapi"
	"github.com/meowmeowcode/swiftgrid/mem"
)

type record = map[string]any

type queryOutput struct {
	swiftgrid.Result[record]
	LastPage int `json:"lastPage"`
}

func newQueryCmd() *cobra.Command {
	var (
		dataPath     string
		queryPath    string
		searchFields []string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Apply a grid query to a JSON array of records",
		Example: `  swiftgrid query --data people.json --query query.json
  echo '{"Filters": [{"Field": "age", "Op": "gte", "Value": 30}]}' | swiftgrid query --data people.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.InOrStdin(), cmd.OutOrStdout(), dataPath, queryPath, searchFields)
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON file with an array of records")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "-", "JSON file with a query state, - for stdin")
	cmd.Flags().StringSliceVar(&searchFields, "search-fields", nil, "fields matched by a global search (default all fields)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runQuery(stdin io.Reader, out io.Writer, dataPath, queryPath string, searchFields []string) error {
	if dataPath == "-" && queryPath == "-" {
		return errors.New("data and query can't both be read from stdin")
	}

	data, err := readInput(stdin, dataPath)
	if err != nil {
		return err
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("data must be a JSON array of objects: %w", err)
	}

	payload, err := readInput(stdin, queryPath)
	if err != nil {
		return err
	}
	q, err := httpapi.DecodeQuery(payload)
	if err != nil {
		return err
	}

	if len(searchFields) == 0 {
		searchFields = keys(records)
	}
	result, err := mem.NewEvaluator[record](mem.Conf{SearchFields: searchFields}).Evaluate(records, q)
	if err != nil {
		return err
	}
	if result.Items == nil {
		result.Items = []record{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(queryOutput{Result: result, LastPage: result.LastPage()})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// keys returns all keys of records in sorted order.
func keys(records []record) []string {
	var result []string
	for _, r := range records {
		for k := range r {
			if !slices.Contains(result, k) {
				result = append(result, k)
			}
		}
	}
	slices.Sort(result)
	return result
}
