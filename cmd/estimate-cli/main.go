package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-estimate/pkg/config"
	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/tui"
)

func main() {
	configPath := flag.String("config", "", "configuration file (JSON or YAML)")
	output := flag.String("output", "", "output file (stdout if empty)")
	noPrefill := flag.Bool("no-prefill", false, "skip geolocation prefill")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	formOptions, err := cfg.FormOptions()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	unit, err := cfg.CurrencyUnit()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	tag, err := cfg.LanguageTag()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	sessionOptions := []tui.Option{
		tui.WithEstimate(form.NewEstimate(formOptions...)),
		tui.WithFormatter(form.NewCurrencyFormatter(unit, tag)),
	}
	if !*noPrefill {
		client, err := cfg.GeoClient()
		if err != nil {
			log.Fatalf("Failed to configure geolocation: %v", err)
		}
		sessionOptions = append(sessionOptions, tui.WithGeoClient(client))
	}

	session := tui.NewSession(sessionOptions...)
	submission, err := session.Run(context.Background())
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			log.Fatal("Aborted")
		}
		log.Fatalf("Session failed: %v", err)
	}

	payload, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode submission: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Estimate written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}
}
