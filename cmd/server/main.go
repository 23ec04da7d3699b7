package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/userstore/internal/app"
	"github.com/dmitrijs2005/userstore/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := app.NewApp(cfg).Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
