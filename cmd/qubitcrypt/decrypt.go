package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/qubitcrypt/qubitcrypt-go"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

func (a *app) decryptCmd() *cobra.Command {
	var keyFile, certFile, in, out string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt enveloped data with a KEM private key",
		Long: "Decrypt enveloped data. The recipient is identified by the subject key " +
			"identifier of the key's public half unless --cert names a certificate.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyFile == "" {
				return errors.New("--key is required")
			}
			keyData, err := os.ReadFile(keyFile)
			if err != nil {
				return err
			}
			priv, err := qubitcrypt.ParsePrivateKey(keyData)
			if err != nil {
				return err
			}

			var recipient *qubitcrypt.Recipient
			if certFile != "" {
				certData, err := os.ReadFile(certFile)
				if err != nil {
					return err
				}
				if recipient, err = qubitcrypt.ParseRecipientCertificate(certData); err != nil {
					return err
				}
			} else {
				pub, err := priv.PublicKey()
				if err != nil {
					return err
				}
				if recipient, err = qubitcrypt.NewRecipient(pub); err != nil {
					return err
				}
			}

			data, err := a.readInput(in)
			if err != nil {
				return err
			}
			ed, err := qubitcrypt.ParseEnvelopedData(data)
			if err != nil {
				return err
			}
			a.log.WithField("recipients", len(ed.RecipientInfos())).Debug("enveloped data parsed")

			content, err := ed.Decrypt(recipient, priv)
			if err != nil {
				return err
			}
			a.log.WithField("algorithm", registry.Name(priv.OID())).Info("content decrypted")
			return a.writeOutput(out, content.Content(), 0o600)
		},
	}

	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "private key file")
	cmd.Flags().StringVar(&certFile, "cert", "", "recipient certificate file")
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input file (DER or PEM)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	return cmd
}
