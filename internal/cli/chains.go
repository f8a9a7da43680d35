package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pendergraft/chainsource/internal/chains"
)

func createChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List supported chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChains()
		},
	}
}

func runChains() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN ID\tNAME")
	for _, c := range chains.All() {
		fmt.Fprintf(w, "%d\t%s\n", c.ID, c.DisplayName)
	}
	return w.Flush()
}
