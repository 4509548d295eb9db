package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

func (a *app) algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.cfg.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME\tOID")
			groups := []struct {
				kind string
				ids  []string
			}{
				{"kem", registry.KEMs()},
				{"signature", registry.DSAs()},
				{"kdf", registry.KDFs()},
				{"wrap", registry.Wraps()},
				{"cipher", registry.Ciphers()},
			}
			for _, g := range groups {
				for _, id := range g.ids {
					fmt.Fprintf(w, "%s\t%s\t%s\n", g.kind, registry.Name(id), id)
				}
			}
			return w.Flush()
		},
	}
}
