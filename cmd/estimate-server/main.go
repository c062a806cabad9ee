package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-estimate/components/estimator"
	"github.com/goliatone/go-estimate/pkg/config"
)

// muxAdapter bridges gorilla's router to the component's Mux interface.
type muxAdapter struct {
	router *mux.Router
}

func (m muxAdapter) Handle(pattern string, handler http.Handler) {
	m.router.Handle(pattern, handler)
}

func main() {
	configPath := flag.String("config", "", "configuration file (JSON or YAML)")
	addr := flag.String("addr", "", "listen address (overrides config)")
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

	component := estimator.New(
		estimator.WithFormOptions(formOptions...),
		estimator.WithTheme(cfg.RendererTheme()),
	)

	router := mux.NewRouter()
	pattern, err := component.RegisterRoutes(muxAdapter{router: router}, cfg.Server.BasePath)
	if err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	log.Printf("Serving estimate form on %s at %s", listen, pattern)
	if err := http.ListenAndServe(listen, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
