// Command ft prints FT headlines for the configured query, one per line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	cfgPkg "github.com/xhad/markovchina/pkg/config"
	"github.com/xhad/markovchina/pkg/ft"
	"github.com/xhad/markovchina/pkg/headlines"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	client, err := ft.NewWithConfig(ft.ClientConfig{
		APIKey:    config.FT.APIKey,
		BaseURL:   config.FT.BaseURL,
		RateLimit: config.HTTP.RateLimit,
		Timeout:   time.Duration(config.HTTP.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}

	titles, err := headlines.Paginate(context.Background(), client, config.FT.Query, config.FT.PageSize, config.FT.Total)
	if err != nil {
		log.Fatal(err)
	}
	for _, title := range titles {
		fmt.Println(title)
	}
}
