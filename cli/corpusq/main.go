package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	corpusqcmder "github.com/corpusware/corpusq/cmd/corpusq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := corpusqcmder.NewCorpusqCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
