package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ikawaha/dctdnoiz.go/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		cmd.Usage()
		os.Exit(1)
	}
}
