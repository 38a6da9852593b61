package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var network = cli.Command{
	Name:  "network",
	Usage: "inspect and switch the configured networks",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "list the configured networks",
			Action: listNetworksAction,
		},
		{
			Name:   "active",
			Usage:  "show the active network",
			Action: activeNetworkAction,
		},
		{
			Name:      "switch",
			Usage:     "make another network active",
			ArgsUsage: "<name>",
			Action:    switchNetworkAction,
		},
	},
}

type networkView struct {
	Name           string   `json:"name"`
	Active         bool     `json:"active"`
	AddressPrefix  string   `json:"address_prefix"`
	AggSigData     string   `json:"agg_sig_data"`
	DNSIntroducers []string `json:"dns_introducers"`
}

func listNetworksAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	config := svc.Networks()
	networks := make([]networkView, 0, len(config.Networks))
	for _, name := range config.Names() {
		n := config.Networks[name]
		networks = append(networks, networkView{
			Name:           name,
			Active:         name == config.ActiveNetwork,
			AddressPrefix:  n.AddressPrefix,
			AggSigData:     n.AggSigData,
			DNSIntroducers: n.DNSIntroducers,
		})
	}
	printJSON(ctx.App.Writer, networks)
	return nil
}

func activeNetworkAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(ctx.App.Writer, svc.Networks().ActiveNetwork)
	return nil
}

func switchNetworkAction(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return &invalidUsageError{ctx, "switch"}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	name := ctx.Args().First()
	if err := svc.SwitchNetwork(ctx.Context, name); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "switched to network %s\n", name)
	return nil
}
