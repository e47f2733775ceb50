package main

import (
	"context"
	"log"
	"os"

	"github.com/keywarden-io/keywarden/internal/buildinfo"
	"github.com/keywarden-io/keywarden/internal/cli"
	"github.com/keywarden-io/keywarden/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
