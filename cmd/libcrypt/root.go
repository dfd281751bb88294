package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/channel"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
)

var (
	cfgFile string
	log     = zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel).With().Timestamp().Logger()
)

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:   "libcrypt",
	Short: "Classical number-theoretic cryptography, end to end",
	Long: `libcrypt generates parameters, encrypts and signs files, and runs the
blind-signature voting and mental poker protocols.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("libcrypt exiting with error")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLog)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.libcrypt.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Verbose mode for debugging")
	rootCmd.PersistentFlags().String("seed", "",
		"Derive all randomness from this seed, for reproducible runs")
	rootCmd.PersistentFlags().String("dir", "",
		"Directory holding the channels (default is in memory)")

	bindFlag(rootCmd, "verbose", "verbose")
	bindFlag(rootCmd, "seed", "seed")
	bindFlag(rootCmd, "dir", "dir")

	rootCmd.AddCommand(paramsCmd, voteCmd, pokerCmd, cipherCmd, signCmd)
}

// bindFlag binds a flag of cmd to a viper key.
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		log.Fatal().Err(err).Str("flag", flag).Msg("error on binding flag")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			log.Warn().Err(err).Msg("cannot find home directory")
			return
		}
		cfgFile = filepath.Join(home, ".libcrypt.yaml")
		// the default config is optional
		if _, err = os.Stat(cfgFile); err != nil {
			return
		}
	}

	viper.SetConfigFile(cfgFile)
	viper.SetEnvPrefix("libcrypt")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Error().Err(err).Str("config", cfgFile).Msg("unable to read config file")
		os.Exit(1)
	}
	log.Debug().Str("config", viper.ConfigFileUsed()).Msg("using config file")
}

// initLog sets the log level.
func initLog() {
	if viper.GetBool("verbose") {
		log = log.Level(zerolog.DebugLevel)
	}
}

// randomness returns the source of randomness for a command, deterministic
// when a seed is configured.
func randomness(name string) (io.Reader, error) {
	seed := viper.GetString("seed")
	if seed == "" {
		return rand.Reader, nil
	}
	return sample.NewSeededReader([]byte(seed), name)
}

// opener returns where channels are created.
func opener() (channel.Opener, error) {
	dir := viper.GetString("dir")
	if dir == "" {
		return channel.NewMemoryOpener(), nil
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("channel directory: %w", err)
	}
	return channel.NewOSOpener(dir)
}
