package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/config"
	"github.com/finsightapp/backend/internal/logger"
	"github.com/finsightapp/backend/internal/service"
	"github.com/finsightapp/backend/internal/store"
)

func main() {
	log := logger.New()
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"
	skipAuth := os.Getenv("SKIP_AUTH") == "true"

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if useMemoryStore {
		log.Info().Msg("using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			log.Fatal().Msg("GOOGLE_CLOUD_PROJECT is required when not using the memory store")
		}

		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Firestore client")
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)

		if !skipAuth {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize Firebase auth")
			}
		}
	}

	financeService := service.NewFinanceService(storeImpl, cfg, log)

	authMiddleware := auth.LocalDevMiddleware()
	if firebaseAuth != nil {
		authMiddleware = auth.Middleware(firebaseAuth)
	} else {
		log.Info().Msg("using mock authentication")
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", authMiddleware(financeService.Routes()))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:1234",
			"http://127.0.0.1:1234",
			"https://finsight.app",
			"https://www.finsight.app",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-User-ID",
		},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
