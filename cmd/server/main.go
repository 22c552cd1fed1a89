package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/nkitsi/internal/buildinfo"
	"github.com/dmitrijs2005/nkitsi/internal/server"
	"github.com/dmitrijs2005/nkitsi/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := server.Main(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
