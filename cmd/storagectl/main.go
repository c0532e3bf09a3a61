// storagectl reads and writes blobs through the storage facade from the
// command line, without going through the HTTP API.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sealstore/sealstore/cmd/flags"
	"github.com/sealstore/sealstore/interfaces"
	"github.com/sealstore/sealstore/store"
	"github.com/urfave/cli/v2"
)

var sealedFlag = &cli.BoolFlag{
	Name:  "sealed",
	Value: false,
	Usage: "compress and encrypt the blob at rest (requires --secret)",
}

func main() {
	appFlags := []cli.Flag{}
	appFlags = append(appFlags, flags.StoreFlags...)
	appFlags = append(appFlags, flags.CommonFlags...)

	app := &cli.App{
		Name:  "storagectl",
		Usage: "Read and write blobs in a sealstore backend",
		Flags: appFlags,
		Commands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "store stdin (or a file) under a key",
				ArgsUsage: "<key> [file]",
				Flags:     []cli.Flag{sealedFlag},
				Action:    runPut,
			},
			{
				Name:      "get",
				Usage:     "write the blob stored under a key to stdout",
				ArgsUsage: "<key>",
				Flags:     []cli.Flag{sealedFlag},
				Action:    runGet,
			},
			{
				Name:      "rm",
				Usage:     "remove the blob stored under a key",
				ArgsUsage: "<key>",
				Action:    runRm,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(cCtx *cli.Context) (*store.Store, interfaces.StorageKey, error) {
	logger := flags.SetupLogger(cCtx)

	if cCtx.Args().Len() < 1 {
		return nil, "", fmt.Errorf("missing key argument")
	}
	key, err := interfaces.NewStorageKey(cCtx.Args().Get(0))
	if err != nil {
		return nil, "", err
	}

	s, err := store.New(store.Config{
		BackendURI: cCtx.String(flags.BackendFlag.Name),
		MirrorURIs: cCtx.StringSlice(flags.MirrorFlag.Name),
		Secret:     cCtx.String(flags.SecretFlag.Name),
		Salt:       cCtx.String(flags.SaltFlag.Name),
		Log:        logger,
	})
	if err != nil {
		return nil, "", err
	}

	return s, key, nil
}

func runPut(cCtx *cli.Context) error {
	s, key, err := setup(cCtx)
	if err != nil {
		return err
	}

	var data []byte
	if cCtx.Args().Len() > 1 {
		data, err = os.ReadFile(cCtx.Args().Get(1))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}

	if cCtx.Bool(sealedFlag.Name) {
		return s.SaveSealedFile(cCtx.Context, key, data)
	}
	return s.SaveFile(cCtx.Context, key, data)
}

func runGet(cCtx *cli.Context) error {
	s, key, err := setup(cCtx)
	if err != nil {
		return err
	}

	var data []byte
	if cCtx.Bool(sealedFlag.Name) {
		data, err = s.GetSealedFile(cCtx.Context, key)
	} else {
		data, err = s.GetFile(cCtx.Context, key)
	}
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}

func runRm(cCtx *cli.Context) error {
	s, key, err := setup(cCtx)
	if err != nil {
		return err
	}
	return s.RemoveFile(cCtx.Context, key)
}
