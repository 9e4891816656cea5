// Command fundtoken prints bearer tokens for ledger addresses, signed with
// the server's JWT_SECRET.
//
//	JWT_SECRET=... fundtoken -ttl 1h alice bob
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/boardfund/internal/auth"
	"github.com/mmynk/boardfund/internal/config"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ttl := flag.Duration("ttl", cfg.TokenTTL, "How long the tokens stay valid")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-ttl duration] address...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, *ttl)
	for _, addr := range flag.Args() {
		token, err := jwtManager.Generate(models.Address(addr))
		if err != nil {
			slog.Error("Failed to generate token", "address", addr, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\n", addr, token)
	}
}
