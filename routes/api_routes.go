// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LilVoxy/srag_etl/database"
)

// SnapshotSource отдает последний снимок представлений
type SnapshotSource interface {
	Snapshot() database.Snapshot
}

// SetupRoutes настраивает все маршруты API аналитики
func SetupRoutes(router *mux.Router, source SnapshotSource, logger *zap.SugaredLogger) {
	// Применяем CORS middleware
	router.Use(CORSMiddleware)

	h := &AnalyticsHandlers{source: source, logger: logger}

	// Случаи по муниципалитетам и итоговые показатели
	router.HandleFunc("/api/casos", h.GetCases).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/resumo", h.GetSummary).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/serie-confirmados", h.GetConfirmedSeries).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/tendencia", h.GetTrend).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/estados", h.GetStates).Methods("GET", "OPTIONS")

	// Остальные представления
	router.HandleFunc("/api/vacinacao", h.GetVaccination).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/sintomas", h.GetSymptoms).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/indicadores", h.GetIndicators).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/perfil", h.GetProfile).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/laboratorios", h.GetLaboratories).Methods("GET", "OPTIONS")
}

// CORSMiddleware разрешает запросы дашборда с других источников
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
