package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var addresses = cli.Command{
	Name:  "addresses",
	Usage: "list the derived addresses of the active key",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "count",
			Usage: "derive addresses up to this count before listing",
		},
	},
	Subcommands: []*cli.Command{
		{
			Name:      "index",
			Usage:     "show the derivation index of an address",
			ArgsUsage: "<address>",
			Action:    addressIndexAction,
		},
	},
	Action: listAddressesAction,
}

func listAddressesAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if count := ctx.Uint("count"); count > 0 {
		if err := svc.DeriveAddresses(ctx.Context, uint32(count)); err != nil {
			return err
		}
	}

	addrs, err := svc.ListAddresses(ctx.Context)
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		fmt.Fprintln(ctx.App.Writer, addr)
	}
	return nil
}

func addressIndexAction(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return &invalidUsageError{ctx, "index"}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	index, found, err := svc.AddressIndex(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("address not derived by the active key")
	}

	fmt.Fprintln(ctx.App.Writer, index)
	return nil
}
