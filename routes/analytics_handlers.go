// routes/analytics_handlers.go
package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/LilVoxy/srag_etl/database"
)

const (
	defaultSymptomsLimit = 10
	defaultForecastDays  = 7
	maxForecastDays      = 60
)

// AnalyticsHandlers обслуживает запросы дашборда из кэша представлений
type AnalyticsHandlers struct {
	source SnapshotSource
	logger *zap.SugaredLogger
}

// CasesResponse структура ответа API для случаев по муниципалитетам
type CasesResponse struct {
	Cases     []database.CaseCount `json:"casos"`
	UpdatedAt time.Time            `json:"atualizado_em"`
}

// GetCases возвращает строки vw_casos_por_municipio, с фильтром estado_uf
func (h *AnalyticsHandlers) GetCases(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Snapshot()
	cases := database.FilterByState(snapshot.Cases, r.URL.Query().Get("estado_uf"))

	h.writeJSON(w, CasesResponse{Cases: nonNil(cases), UpdatedAt: snapshot.UpdatedAt})
}

// GetSummary возвращает итоги, положительность и летальность
func (h *AnalyticsHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	cases := database.FilterByState(h.source.Snapshot().Cases, r.URL.Query().Get("estado_uf"))
	h.writeJSON(w, database.Summarize(cases))
}

// GetConfirmedSeries возвращает дневной ряд подтвержденных случаев
func (h *AnalyticsHandlers) GetConfirmedSeries(w http.ResponseWriter, r *http.Request) {
	cases := database.FilterByState(h.source.Snapshot().Cases, r.URL.Query().Get("estado_uf"))
	h.writeJSON(w, database.DailyConfirmed(cases))
}

// GetTrend возвращает линейный тренд подтвержденных случаев и прогноз на dias дней
func (h *AnalyticsHandlers) GetTrend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	days := defaultForecastDays
	if raw := query.Get("dias"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxForecastDays {
			http.Error(w, "Неверный формат параметра dias", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	cases := database.FilterByState(h.source.Snapshot().Cases, query.Get("estado_uf"))
	trend, err := database.FitTrend(database.DailyConfirmed(cases), days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.writeJSON(w, trend)
}

// GetStates возвращает список штатов для фильтра
func (h *AnalyticsHandlers) GetStates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, nonNil(database.States(h.source.Snapshot().Cases)))
}

// GetVaccination возвращает vw_vacinacao_por_resultado
func (h *AnalyticsHandlers) GetVaccination(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, nonNil(h.source.Snapshot().Vaccination))
}

// GetSymptoms возвращает самые частые симптомы (limit, по умолчанию 10)
func (h *AnalyticsHandlers) GetSymptoms(w http.ResponseWriter, r *http.Request) {
	limit := defaultSymptomsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	h.writeJSON(w, database.TopSymptoms(h.source.Snapshot().Symptoms, limit))
}

// GetIndicators возвращает таблицу indicadores_municipais
func (h *AnalyticsHandlers) GetIndicators(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, nonNil(h.source.Snapshot().Indicators))
}

// GetProfile возвращает vw_perfil_epidemiologico
func (h *AnalyticsHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, nonNil(h.source.Snapshot().Profile))
}

// GetLaboratories возвращает vw_testes_por_laboratorio
func (h *AnalyticsHandlers) GetLaboratories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, nonNil(h.source.Snapshot().Labs))
}

func (h *AnalyticsHandlers) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Errorw("Ошибка при кодировании JSON", "error", err)
		http.Error(w, "Ошибка при формировании ответа", http.StatusInternalServerError)
	}
}

// nonNil заменяет nil на пустой срез, чтобы в JSON был [] вместо null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
