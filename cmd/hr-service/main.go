package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/upb/hr-platform/config"
	"github.com/upb/hr-platform/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, config.ServiceHR); err != nil {
		fmt.Fprintf(os.Stderr, "hr-service: %v\n", err)
		os.Exit(1)
	}
}
