package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	appplayers "github.com/tyler180/pfr-players/internal/app/players"
)

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.SetFlags(0)
		lambda.Start(appplayers.LambdaEntrypoint)
		return
	}

	// local run: .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN .env: %v", err)
	}

	if err := run(); err != nil {
		log.Fatalf("players: %v", err)
	}
}

func run() error {
	cfg, err := appplayers.ConfigFromEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := appplayers.Run(ctx, cfg, appplayers.Deps{})
	if err != nil {
		return err
	}
	if cfg.Debug {
		b, _ := json.Marshal(resp)
		log.Printf("players: %s", b)
	}
	return nil
}
