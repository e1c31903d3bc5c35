// Package main - entry point for the infra-review API server
package main

import (
	"flag"
	"fmt"
	"log"

	"infra-review/api"
	"infra-review/internal/config"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "listen address (overrides config)")
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
		config.Set(cfg)
	}
	if *addr != "" {
		cfg.API.Listen = *addr
	}

	server := api.NewServer(version, cfg)

	fmt.Printf("infra-review API v%s\n", version)
	fmt.Printf("  listening on %s\n", cfg.API.Listen)
	fmt.Println()

	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
