package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/math/sample"
	"github.com/taurusgroup/libcrypt/pkg/pool"
	"github.com/taurusgroup/libcrypt/protocols/poker"
)

var pokerCmd = &cobra.Command{
	Use:   "poker",
	Short: "Deal a game of mental poker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rand, err := randomness("poker")
		if err != nil {
			return err
		}
		pl := pool.NewPool(0)
		p, err := sample.SafePrime(rand, pl)
		if err != nil {
			return err
		}
		modulus := 2*p + 1
		log.Debug().Int64("modulus", modulus).Int("workers", pl.Workers()).Msg("modulus chosen")

		table, err := poker.NewTable(rand, modulus, viper.GetInt("poker.players"))
		if err != nil {
			return err
		}
		table.Log = log
		table.WithPool(pl)

		if err = table.Play(poker.HandSize, poker.BoardSize); err != nil {
			return err
		}
		for _, player := range table.Players() {
			fmt.Printf("%s: %v\n", player.Name(), player.Hand())
		}

		if viper.GetBool("poker.audit") {
			if err = table.Audit(); err != nil {
				return err
			}
			log.Info().Msg("audit passed")
		}
		return nil
	},
}

func init() {
	pokerCmd.Flags().IntP("players", "p", 2, "Number of players, in [2, 10]")
	pokerCmd.Flags().Bool("audit", true, "Reveal keys and audit every encryption pass after the game")
	bindFlag(pokerCmd, "poker.players", "players")
	bindFlag(pokerCmd, "poker.audit", "audit")
}
