package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl-exchange/internal/repository"
	"github.com/rezonia/ubl-exchange/internal/ubl"
)

var (
	decodeOutput string
	decodeStore  bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Decode UBL 2.1 invoice files",
	Long: `Decode one or more UBL 2.1 Invoice XML files into the canonical model.

Decoded invoices are printed as JSON. With --store they are also persisted
into the local SQLite database for later export.

Examples:
  ubl-exchange decode invoice.xml
  ubl-exchange decode invoice.xml -o invoice.json
  ubl-exchange decode *.xml --store --db invoices.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Output file (default: stdout)")
	decodeCmd.Flags().BoolVar(&decodeStore, "store", false, "Persist decoded invoices into the database")
}

func runDecode(cmd *cobra.Command, args []string) error {
	decoder := ubl.NewDecoder()

	var store *repository.GormStore
	if decodeStore {
		var err error
		store, err = repository.OpenSQLite(databaseDSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	decoded := make([]interface{}, 0, len(args))
	for _, file := range args {
		printVerbose("Decoding: %s\n", file)

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		inv, err := decoder.Decode(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", file, err)
		}
		inv.OriginalFileName = file
		inv.FileSizeBytes = int64(len(data))

		if store != nil {
			if err := store.Save(ctx, inv); err != nil {
				return fmt.Errorf("store %s: %w", file, err)
			}
			printVerbose("  Stored as %s\n", inv.ID)
		}
		decoded = append(decoded, inv)
	}

	var out interface{} = decoded
	if len(decoded) == 1 {
		out = decoded[0]
	}
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if decodeOutput != "" {
		return os.WriteFile(decodeOutput, payload, 0o644)
	}
	_, err = os.Stdout.Write(payload)
	return err
}
