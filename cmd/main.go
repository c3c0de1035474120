package main

import (
	"log"

	"github.com/topoatlas/demcache/internal/app"
	"github.com/topoatlas/demcache/pkg/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalln("failed to load config: ", err)
	}

	app.Run(cfg)
}
