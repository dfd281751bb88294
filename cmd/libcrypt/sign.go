package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/signature"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Append a signature to a file and verify it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme := viper.GetString("sign.scheme")
		rand, err := randomness("sign/" + scheme)
		if err != nil {
			return err
		}
		k, err := loadKey(rand, scheme, viper.GetString("sign.key"))
		if err != nil {
			return err
		}

		path := viper.GetString("sign.file")
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return err
		}
		defer f.Close()

		if !viper.GetBool("sign.verify-only") {
			if err = signStream(rand, k, f); err != nil {
				return err
			}
		}
		ok, err := verifyStream(k, f)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: signature of %s does not verify", scheme, path)
		}
		size, err := channel.Size(f)
		if err != nil {
			return err
		}
		log.Info().Str("scheme", scheme).Str("file", path).Int64("size", size).Msg("signature verified")
		return nil
	},
}

func signStream(rand io.Reader, k keySet, ch io.ReadWriteSeeker) error {
	switch k := k.(type) {
	case *keys.RSA:
		return signature.SignRSA(k, ch)
	case *keys.ElGamal:
		return signature.SignElGamal(rand, k, ch)
	case *keys.GOST:
		return signature.SignGOST(rand, k, ch)
	default:
		return fmt.Errorf("%T cannot sign", k)
	}
}

func verifyStream(k keySet, ch io.ReadSeeker) (bool, error) {
	switch k := k.(type) {
	case *keys.RSA:
		return signature.VerifyRSA(k.Public(), ch)
	case *keys.ElGamal:
		return signature.VerifyElGamal(k.Public(), ch)
	case *keys.GOST:
		return signature.VerifyGOST(k.Public(), ch)
	default:
		return false, fmt.Errorf("%T cannot verify", k)
	}
}

func init() {
	signCmd.Flags().String("scheme", "rsa", "Signature: rsa, elgamal or gost")
	signCmd.Flags().StringP("file", "f", "", "File to sign in place")
	signCmd.Flags().String("key", "", "Key set written by the params command (default is a fresh key)")
	signCmd.Flags().Bool("verify-only", false, "Only verify the signature already appended to the file")
	_ = signCmd.MarkFlagRequired("file")
	bindFlag(signCmd, "sign.scheme", "scheme")
	bindFlag(signCmd, "sign.file", "file")
	bindFlag(signCmd, "sign.key", "key")
	bindFlag(signCmd, "sign.verify-only", "verify-only")
}
