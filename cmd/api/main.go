package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"wellness-nudge-backend/internal/analytics"
	"wellness-nudge-backend/internal/catalog"
	"wellness-nudge-backend/internal/config"
	"wellness-nudge-backend/internal/metrics"
	"wellness-nudge-backend/internal/recommend"
)

// ----------------------
//        MAIN
// ----------------------

func main() {
	cfg := config.Load()

	store := metrics.NewStore()

	weights := recommend.DefaultWeights()
	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		file, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatal("❌ Failed to load catalog:", err)
		}
		cat, err = catalog.NewFromTasks(file.Tasks, store)
		if err != nil {
			log.Fatal("❌ Failed to build catalog:", err)
		}
		weights, err = recommend.WeightsFromMap(file.Weights)
		if err != nil {
			log.Fatal("❌ Failed to load weights:", err)
		}
		log.Printf("✅ Loaded catalog from %s (%d tasks)", cfg.CatalogPath, len(file.Tasks))
	} else {
		cat = catalog.New(store)
		log.Println("✅ Using built-in nudge catalog")
	}

	engine := recommend.NewEngine(cat, store, weights)
	recorder := analytics.NewRecorder(512)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- RECOMMENDATIONS API -----
	mux.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recommend.RecommendationsHandler(engine, store, recorder)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- TASKS API -----
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalog.ListTasksHandler(cat)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/tasks/complete", requirePost(catalog.CompleteTaskHandler(cat, recorder)))
	mux.HandleFunc("/tasks/dismiss", requirePost(catalog.DismissTaskHandler(cat, recorder)))

	// ----- METRICS API -----
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			metrics.GetMetricsHandler(store)(w, r)
		case http.MethodPost:
			metrics.UpdateMetricsHandler(store)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// ----- ADMIN API (deterministic seeding, not user flow) -----
	mux.HandleFunc("/admin/reset", requirePost(recommend.ForceResetHandler(engine, recorder)))
	mux.HandleFunc("/admin/metrics", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut, http.MethodPost:
			metrics.SetMetricsHandler(store)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/admin/ignores", requirePost(catalog.SetIgnoresHandler(cat)))
	mux.HandleFunc("/admin/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		analytics.EventsHandler(recorder)(w, r)
	})

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Platform", "X-App-Version", "X-Session-Id"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Printf("🚀 API server is running on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), handler))
}

func requirePost(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			next(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
