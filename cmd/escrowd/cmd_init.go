package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/x/escrow"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new chain in the home directory.

Genesis is read from the given file. If no file is provided, an empty state
with the given chain id and lifetime configuration is created. A chain can be
initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl      = fl.String("home", defaultHome(), homeFlDesc)
		genesisFl   = fl.String("genesis", "", "Path to a genesis file. Overrides all other flags.")
		chainIDFl   = fl.String("chain-id", "escrow-local", "Chain ID.")
		thresholdFl = fl.Uint("ttl-threshold", uint(escrow.DefaultConfiguration().TTLThreshold), "Remaining lifetime, in blocks, below which written records are extended.")
		extendFl    = fl.Uint("ttl-extend-to", uint(escrow.DefaultConfiguration().TTLExtendTo), "Lifetime, in blocks, given to extended records.")
		verboseFl   = fl.Bool("verbose", false, "Log debug information.")
	)
	fl.Parse(args)

	gen, err := genesis(*genesisFl, *chainIDFl, uint32(*thresholdFl), uint32(*extendFl))
	if err != nil {
		return err
	}

	a, cleanup, err := openApp(*homeFl, *verboseFl)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.InitChain(gen); err != nil {
		return fmt.Errorf("cannot initialize chain: %s", err)
	}
	_, err = fmt.Fprintln(output, gen.ChainID)
	return err
}

func genesis(path, chainID string, threshold, extendTo uint32) (app.Genesis, error) {
	if path != "" {
		return app.LoadGenesis(path)
	}
	conf, err := json.Marshal(map[string]escrow.Configuration{
		escrow.ConfigurationName: {TTLThreshold: threshold, TTLExtendTo: extendTo},
	})
	if err != nil {
		return app.Genesis{}, fmt.Errorf("cannot serialize configuration: %s", err)
	}
	return app.Genesis{
		ChainID:  chainID,
		AppState: escrowd.Options{"conf": conf},
	}, nil
}
