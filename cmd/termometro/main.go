package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"termometro/cli"
)

var version = "dev"

func main() {
	profiles, err := cli.NewProfileStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := cli.Dependencies{
		Geocoder: cli.NewNominatimGeocoder(),
		Profiles: profiles,
		Version:  version,
	}
	code := cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
