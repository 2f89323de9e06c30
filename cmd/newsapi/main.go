// Command newsapi prints the first page of News API headlines for the
// configured query, one per line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	cfgPkg "github.com/xhad/markovchina/pkg/config"
	"github.com/xhad/markovchina/pkg/newsapi"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	client, err := newsapi.NewWithConfig(newsapi.ClientConfig{
		APIKey:        config.NewsAPI.APIKey,
		BaseURL:       config.NewsAPI.BaseURL,
		Language:      config.NewsAPI.Language,
		RateLimit:     config.HTTP.RateLimit,
		Timeout:       time.Duration(config.HTTP.TimeoutSecs) * time.Second,
		StripSuffixes: config.NewsAPI.StripSuffixes,
	})
	if err != nil {
		log.Fatal(err)
	}

	titles, err := client.Headlines(context.Background(), config.NewsAPI.Query, config.NewsAPI.PageSize)
	if err != nil {
		log.Fatal(err)
	}
	for _, title := range titles {
		fmt.Println(title)
	}
}
