package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"iq-home/invoice_backend/internal/app/config"
	apphttp "iq-home/invoice_backend/internal/app/http"
	pdfgen "iq-home/invoice_backend/internal/domain/invoice/pdf/gofpdf"
	"iq-home/invoice_backend/internal/infra/db/postgres"
)

func Run() {
	cfg := config.MustLoad()

	db, err := postgres.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := postgres.NewStore(db)
	router := apphttp.NewRouter(cfg, store, pdfgen.New())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(srv.ListenAndServe())
}
