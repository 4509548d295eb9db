package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qubitcrypt/qubitcrypt-go"
	"github.com/qubitcrypt/qubitcrypt-go/internal/registry"
)

func (a *app) encryptCmd() *cobra.Command {
	var (
		keyFiles  []string
		certFiles []string
		ukm       string
		in, out   string
		armor     bool
	)

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt data to one or more KEM recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keyFiles) == 0 && len(certFiles) == 0 {
				return errors.New("at least one --recipient or --cert is required")
			}

			cipherID, err := lookupAlgorithm("cipher", a.flagOrEnv(cmd, "cipher", envCipher), registry.Ciphers())
			if err != nil {
				return err
			}
			kdfID, err := lookupAlgorithm("kdf", a.flagOrEnv(cmd, "kdf", envKDF), registry.KDFs())
			if err != nil {
				return err
			}
			wrapID, err := lookupAlgorithm("wrap", a.flagOrEnv(cmd, "wrap", envWrap), registry.Wraps())
			if err != nil {
				return err
			}

			recipients, err := a.loadRecipients(keyFiles, certFiles)
			if err != nil {
				return err
			}
			plaintext, err := a.readInput(in)
			if err != nil {
				return err
			}

			b, err := qubitcrypt.NewEnvelopedDataBuilder(qubitcrypt.ContentEncryptionAlgorithm(cipherID))
			if err != nil {
				return err
			}
			var ukmBytes []byte
			if ukm != "" {
				ukmBytes = []byte(ukm)
			}
			for _, r := range recipients {
				err := b.KEMRecipient(r, qubitcrypt.KeyDerivationAlgorithm(kdfID), qubitcrypt.KeyWrapAlgorithm(wrapID), ukmBytes)
				if err != nil {
					return err
				}
			}
			if err := b.Content(plaintext); err != nil {
				return err
			}
			der, err := b.Build()
			if err != nil {
				return err
			}
			if armor {
				der = qubitcrypt.EncodePEM(der)
			}

			a.log.WithFields(logrus.Fields{
				"recipients": len(recipients),
				"cipher":     registry.Name(cipherID),
				"kdf":        registry.Name(kdfID),
				"wrap":       registry.Name(wrapID),
			}).Info("content encrypted")
			return a.writeOutput(out, der, 0o644)
		},
	}

	cmd.Flags().StringArrayVarP(&keyFiles, "recipient", "r", nil, "recipient public key file (repeatable)")
	cmd.Flags().StringArrayVar(&certFiles, "cert", nil, "recipient certificate file (repeatable)")
	cmd.Flags().String("cipher", "AES-256-CBC", "content-encryption algorithm ($"+envCipher+")")
	cmd.Flags().String("kdf", "HKDF-SHA256", "key derivation function ($"+envKDF+")")
	cmd.Flags().String("wrap", "AES-256-KW", "key wrap algorithm ($"+envWrap+")")
	cmd.Flags().StringVar(&ukm, "ukm", "", "user keying material")
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input file")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	cmd.Flags().BoolVar(&armor, "pem", false, "write PEM instead of DER")
	return cmd
}

func (a *app) loadRecipients(keyFiles, certFiles []string) ([]*qubitcrypt.Recipient, error) {
	var recipients []*qubitcrypt.Recipient
	for _, path := range keyFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		pub, err := qubitcrypt.ParsePublicKey(data)
		if err != nil {
			return nil, err
		}
		r, err := qubitcrypt.NewRecipient(pub)
		if err != nil {
			return nil, err
		}
		a.log.WithField("file", path).Debug("recipient loaded from public key")
		recipients = append(recipients, r)
	}
	for _, path := range certFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r, err := qubitcrypt.ParseRecipientCertificate(data)
		if err != nil {
			return nil, err
		}
		a.log.WithField("file", path).Debug("recipient loaded from certificate")
		recipients = append(recipients, r)
	}
	return recipients, nil
}
