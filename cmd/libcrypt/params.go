package main

import (
	"encoding"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/pkg/pool"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Generate a key set and write it as CBOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme := viper.GetString("params.scheme")
		rand, err := randomness("params/" + scheme)
		if err != nil {
			return err
		}
		k, err := generateKey(rand, scheme)
		if err != nil {
			return err
		}
		data, err := k.MarshalBinary()
		if err != nil {
			return err
		}
		out := viper.GetString("params.out")
		if out == "" {
			out = scheme + ".cbor"
		}
		if err = os.WriteFile(out, data, 0o600); err != nil {
			return err
		}
		log.Info().Str("scheme", scheme).Str("file", out).Msg("key set written")
		return nil
	},
}

func init() {
	paramsCmd.Flags().String("scheme", "rsa", "Key set to generate: rsa, voting, shamir, elgamal or gost")
	paramsCmd.Flags().StringP("out", "o", "", "Output file (default is <scheme>.cbor)")
	bindFlag(paramsCmd, "params.scheme", "scheme")
	bindFlag(paramsCmd, "params.out", "out")
}

type keySet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Validate() error
}

func emptyKey(scheme string) (keySet, error) {
	switch scheme {
	case "rsa", "voting":
		return new(keys.RSA), nil
	case "shamir":
		return new(keys.Shamir), nil
	case "elgamal":
		return new(keys.ElGamal), nil
	case "gost":
		return new(keys.GOST), nil
	default:
		return nil, fmt.Errorf("unknown scheme %q", scheme)
	}
}

func generateKey(rand io.Reader, scheme string) (keySet, error) {
	switch scheme {
	case "rsa":
		return keys.GenerateRSA(rand)
	case "voting":
		return keys.GenerateVoting(rand)
	case "shamir":
		return keys.GenerateShamir(rand)
	case "elgamal":
		return keys.GenerateElGamal(rand, pool.NewPool(0))
	case "gost":
		return keys.GenerateGOST(rand)
	default:
		return nil, fmt.Errorf("unknown scheme %q", scheme)
	}
}

// loadKey reads a key set written by the params command, or generates a fresh
// one when path is empty.
func loadKey(rand io.Reader, scheme, path string) (keySet, error) {
	if path == "" {
		return generateKey(rand, scheme)
	}
	k, err := emptyKey(scheme)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = k.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return k, nil
}
