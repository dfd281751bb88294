package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/cipher"
	"github.com/taurusgroup/libcrypt/pkg/keys"
)

var cipherCmd = &cobra.Command{
	Use:   "cipher",
	Short: "Encrypt a file, then decrypt it back",
	Long: `cipher encrypts the message into the channel <message>.enc and decrypts
it into <message>.dec, checking that the round trip gives the message back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme := viper.GetString("cipher.scheme")
		rand, err := randomness("cipher/" + scheme)
		if err != nil {
			return err
		}
		msgFile := viper.GetString("cipher.message")
		msg, err := os.ReadFile(msgFile)
		if err != nil {
			return err
		}

		var encrypt, decrypt func(src io.Reader, dst io.Writer) error
		switch scheme {
		case "vernam":
			key, err := cipher.NewVernamKey(rand, len(msg))
			if err != nil {
				return err
			}
			encrypt = func(src io.Reader, dst io.Writer) error { return cipher.Vernam(key, src, dst) }
			decrypt = encrypt
		case "shamir", "elgamal", "rsa":
			k, err := loadKey(rand, scheme, viper.GetString("cipher.key"))
			if err != nil {
				return err
			}
			encrypt, decrypt = byteCipher(rand, k)
		default:
			return fmt.Errorf("unknown cipher %q", scheme)
		}

		o, err := opener()
		if err != nil {
			return err
		}
		base := filepath.Base(msgFile)
		enc, err := o.Open(base + ".enc")
		if err != nil {
			return err
		}
		defer enc.Close()
		dec, err := o.Open(base + ".dec")
		if err != nil {
			return err
		}
		defer dec.Close()

		if err = encrypt(bytes.NewReader(msg), enc); err != nil {
			return err
		}
		if err = channel.Rewind(enc); err != nil {
			return err
		}
		var out bytes.Buffer
		if err = decrypt(enc, io.MultiWriter(dec, &out)); err != nil {
			return err
		}
		if !bytes.Equal(msg, out.Bytes()) {
			return fmt.Errorf("%s: decrypted message differs from the original", scheme)
		}
		log.Info().Str("scheme", scheme).Int("bytes", len(msg)).Str("ciphertext", enc.Name()).Msg("round trip ok")
		return nil
	},
}

func byteCipher(rand io.Reader, k keySet) (encrypt, decrypt func(src io.Reader, dst io.Writer) error) {
	switch k := k.(type) {
	case *keys.Shamir:
		return func(src io.Reader, dst io.Writer) error { return cipher.EncryptShamir(k, src, dst) },
			func(src io.Reader, dst io.Writer) error { return cipher.DecryptShamir(k, src, dst) }
	case *keys.ElGamal:
		return func(src io.Reader, dst io.Writer) error { return cipher.EncryptElGamal(rand, k.Public(), src, dst) },
			func(src io.Reader, dst io.Writer) error { return cipher.DecryptElGamal(k, src, dst) }
	case *keys.RSA:
		return func(src io.Reader, dst io.Writer) error { return cipher.EncryptRSA(k.Public(), src, dst) },
			func(src io.Reader, dst io.Writer) error { return cipher.DecryptRSA(k, src, dst) }
	}
	return nil, nil
}

func init() {
	cipherCmd.Flags().String("scheme", "shamir", "Cipher: shamir, elgamal, rsa or vernam")
	cipherCmd.Flags().StringP("message", "m", "", "File to encrypt")
	cipherCmd.Flags().String("key", "", "Key set written by the params command (default is a fresh key)")
	_ = cipherCmd.MarkFlagRequired("message")
	bindFlag(cipherCmd, "cipher.scheme", "scheme")
	bindFlag(cipherCmd, "cipher.message", "message")
	bindFlag(cipherCmd, "cipher.key", "key")
}
