package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sage-wallet/sage/pkg/wallet"
)

var genseed = cli.Command{
	Name:  "genseed",
	Usage: "generate a new mnemonic",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "long",
			Usage: "generate a 24 words mnemonic instead of 12",
		},
	},
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	entropySize := wallet.ShortEntropySize
	if ctx.Bool("long") {
		entropySize = wallet.LongEntropySize
	}
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: entropySize,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, strings.Join(mnemonic, " "))
	return nil
}
