// Package main is a debug OSC receiver that logs every message sent by the relay.
package main

import (
	"fmt"
	"os"

	"github.com/hypebeast/go-osc/osc"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("barcode-listener", pflag.ExitOnError)
	address := flags.String("address", "127.0.0.1:5005", "UDP address to receive OSC messages on")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Failed to parse flags: %s\n", err.Error())
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %s\n", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	dispatcher := osc.NewStandardDispatcher()
	if err := dispatcher.AddMsgHandler("*", func(msg *osc.Message) {
		logger.Info("OSC message received",
			zap.String("address", msg.Address),
			zap.Any("arguments", msg.Arguments),
		)
	}); err != nil {
		logger.Error("Failed to register handler", zap.Error(err))
		os.Exit(1)
	}

	server := &osc.Server{
		Addr:       *address,
		Dispatcher: dispatcher,
	}

	logger.Info("OSC listener started", zap.String("address", *address))
	if err := server.ListenAndServe(); err != nil {
		logger.Error("OSC listener stopped", zap.Error(err))
		os.Exit(1)
	}
}
