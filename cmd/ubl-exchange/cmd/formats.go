package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/ubl-exchange/internal/export"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported export formats",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tNAME\tCONTENT TYPE\tDESCRIPTION")
	for _, info := range export.FormatInfos() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", info.Value, info.Name, info.ContentType, info.Description)
	}
	return w.Flush()
}
