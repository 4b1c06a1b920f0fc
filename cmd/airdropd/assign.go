package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"nftdrop/config"
	"nftdrop/core/ownership"
	"nftdrop/crypto"
	"nftdrop/native/airdrop"
)

// runAssign implements `airdropd assign`: it records asset ownership in the
// configured SQL directory.
func runAssign(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("assign", pflag.ContinueOnError)
	flags.SetOutput(out)
	cfgPath := flags.StringP("config", "c", "./airdropd.toml", "path to the daemon configuration")
	collection := flags.String("collection", airdrop.DefaultCollection, "asset collection")
	holder := flags.String("holder", "", "bech32 holder address")
	if err := flags.Parse(args); err != nil {
		return err
	}
	assets := flags.Args()
	if len(assets) == 0 {
		return fmt.Errorf("assign: at least one asset id required")
	}
	raw, err := crypto.ParseHolder(strings.TrimSpace(*holder))
	if err != nil {
		return fmt.Errorf("assign: holder: %w", err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if cfg.Ownership.Driver == config.DriverStatic {
		return fmt.Errorf("assign: static directory is read from %s; edit the fixture instead", cfg.Ownership.Fixture)
	}
	dir, err := ownership.OpenSQL(cfg.Ownership.Driver, cfg.Ownership.DSN)
	if err != nil {
		return err
	}
	defer dir.Close()

	ctx := context.Background()
	for _, id := range assets {
		if err := dir.Assign(ctx, *collection, id, raw); err != nil {
			return err
		}
		fmt.Fprintf(out, "assigned %s/%s to %s\n", *collection, id, *holder)
	}
	return nil
}
