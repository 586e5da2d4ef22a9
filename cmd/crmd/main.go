package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/config"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/api"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/app"
)

var (
	h        = flag.Bool("h", false, "help usage")
	x        = flag.Bool("x", false, "debug mode")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	conffile = flag.String("c", "", "config file")
)

func printHelp() {
	if *h {
		fmt.Fprintln(os.Stderr, "crmd version: 1.0, usage: crmd -h\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	cfg := config.LoadConfig(*conffile)
	if *x {
		cfg.System.Debug = true
		cfg.Database.Debug = true
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, application.Store(), application.Mutations(), application)
	if err := server.Start(ctx); err != nil {
		zap.L().Fatal("api server error", zap.Error(err))
	}
}
