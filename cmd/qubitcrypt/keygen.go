package main

import (
	"github.com/spf13/cobra"

	"github.com/qubitcrypt/qubitcrypt-go"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

func (a *app) keygenCmd() *cobra.Command {
	var alg, out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a KEM or signature key pair",
		Long: "Generate a key pair. With --out PREFIX the keys are written to PREFIX.pub.pem " +
			"and PREFIX.pem, otherwise both PEM blocks go to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := lookupAlgorithm("algorithm", alg, append(registry.KEMs(), registry.DSAs()...))
			if err != nil {
				return err
			}

			pub, priv, err := qubitcrypt.GenerateKeyPair(id)
			if err != nil {
				return err
			}
			pubPEM, err := pub.MarshalPEM()
			if err != nil {
				return err
			}
			privPEM, err := priv.MarshalPEM()
			if err != nil {
				return err
			}

			log := a.log.WithField("algorithm", registry.Name(id))
			if out == "" {
				log.Debug("writing key pair to stdout")
				return a.writeOutput("-", append(pubPEM, privPEM...), 0)
			}
			if err := a.writeOutput(out+".pub.pem", pubPEM, 0o644); err != nil {
				return err
			}
			if err := a.writeOutput(out+".pem", privPEM, 0o600); err != nil {
				return err
			}
			log.WithField("prefix", out).Info("key pair written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&alg, "alg", "a", "X-Wing", "algorithm name or OID")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file prefix")
	return cmd
}
