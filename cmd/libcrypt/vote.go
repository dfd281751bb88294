package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/libcrypt/pkg/keys"
	"github.com/taurusgroup/libcrypt/protocols/voting"
)

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Run an anonymous vote with blind signatures",
	Long: `vote registers one elector per answer, has each of them cast a blindly
signed bulletin on the anonymous channel, and tallies the result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rand, err := randomness("vote")
		if err != nil {
			return err
		}
		answers := viper.GetIntSlice("vote.answer")
		if len(answers) == 0 {
			return fmt.Errorf("at least one answer is required")
		}

		k, err := loadKey(rand, "voting", viper.GetString("vote.key"))
		if err != nil {
			return err
		}
		o, err := opener()
		if err != nil {
			return err
		}

		server := voting.NewServer(k.(*keys.RSA), o)
		server.Log = log.With().Str("session", server.Session().String()).Logger()

		anonymous, err := o.Open(server.Session().String() + "-bulletins")
		if err != nil {
			return err
		}
		defer anonymous.Close()

		for _, a := range answers {
			if a < 0 || a > 0xff {
				return fmt.Errorf("answer %d does not fit in a byte", a)
			}
			e, err := voting.NewElector(rand, uint8(a))
			if err != nil {
				return err
			}
			if err = voting.Cast(server, e, anonymous); err != nil {
				return err
			}
		}

		tally, err := server.Tally(anonymous)
		if err != nil {
			return err
		}
		for answer, count := range tally.Counts {
			fmt.Printf("answer %d: %d\n", answer, count)
		}
		if tally.Rejected > 0 || tally.Replays > 0 {
			return fmt.Errorf("%d rejected bulletins, %d replays", tally.Rejected, tally.Replays)
		}
		return nil
	},
}

func init() {
	voteCmd.Flags().IntSliceP("answer", "a", []int{1}, "Answer of each elector, in [0, 255]")
	voteCmd.Flags().String("key", "", "Server key written by 'params --scheme voting' (default is a fresh key)")
	bindFlag(voteCmd, "vote.answer", "answer")
	bindFlag(voteCmd, "vote.key", "key")
}
