package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/clubworks/go-formflow/pkg/docstore/sqlitestore"
	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/httpapi"
	"github.com/clubworks/go-formflow/pkg/identity"
	"github.com/clubworks/go-formflow/pkg/repository"
	"github.com/clubworks/go-formflow/pkg/submission"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "formflow.db", "SQLite database path")
	uploads := flag.String("uploads", "uploads", "directory for uploaded files")
	baseURL := flag.String("base-url", "http://localhost:8080/uploads", "public base URL for uploaded files")
	flag.Parse()

	secret := os.Getenv("FORMFLOW_SECRET")
	if secret == "" {
		log.Fatal("FORMFLOW_SECRET must be set for admin authentication")
	}

	store, err := sqlitestore.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	files, err := filestore.NewDisk(*uploads, *baseURL)
	if err != nil {
		log.Fatalf("Failed to open upload directory: %v", err)
	}

	repo := repository.New(store)
	processor := submission.NewProcessor(files, repo)
	server := httpapi.NewServer(repo, processor,
		httpapi.WithVerifier(identity.NewTokenVerifier([]byte(secret))),
	)

	mux := http.NewServeMux()
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(*uploads))))
	mux.Handle("/", server.Router())

	log.Printf("formflow listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
