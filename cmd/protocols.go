package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/protosim/protosim/sim/wiring"
)

// protocolsCmd lists the protocol families a run can use as its root.
var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List the registered root protocols",
	Run: func(cmd *cobra.Command, args []string) {
		listProtocols(cmd.OutOrStdout(), wiring.DefaultRegistry())
	},
}

func listProtocols(w io.Writer, reg *wiring.Registry) {
	for _, name := range reg.Names() {
		fmt.Fprintln(w, name)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
