package transform

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// stateCodeDigits - число ведущих цифр кода муниципалитета, образующих код штата
const stateCodeDigits = 2

// DimensionBuilder строит таблицы измерений с плотными суррогатными ключами 1..N
type DimensionBuilder struct {
	logger *utils.ETLLogger
}

// NewDimensionBuilder создает новый экземпляр DimensionBuilder
func NewDimensionBuilder(logger *utils.ETLLogger) *DimensionBuilder {
	return &DimensionBuilder{logger: logger}
}

// MultiValuedPairs - результаты разбиения многозначных полей
type MultiValuedPairs struct {
	Symptoms   []models.ValuePair
	Conditions []models.ValuePair
	Doses      []models.ValuePair
}

// Build формирует все измерения по очищенным записям
func (b *DimensionBuilder) Build(records []models.Notification, pairs MultiValuedPairs) models.Dimensions {
	dims := models.Dimensions{
		Locations:     BuildLocations(records),
		VaccineStatus: buildVaccineStatus(records),
	}

	for i, name := range distinctPairValues(pairs.Symptoms) {
		dims.Symptoms = append(dims.Symptoms, models.SymptomDim{ID: i + 1, Name: name})
	}
	for i, name := range distinctPairValues(pairs.Conditions) {
		dims.Conditions = append(dims.Conditions, models.ConditionDim{ID: i + 1, Name: name})
	}
	for i, name := range distinctPairValues(pairs.Doses) {
		dims.Doses = append(dims.Doses, models.DoseDim{ID: i + 1, Description: name})
	}

	races := lo.FilterMap(records, func(n models.Notification, _ int) (string, bool) {
		return n.Race.String, n.Race.Valid
	})
	for i, desc := range lo.Uniq(races) {
		dims.Races = append(dims.Races, models.RaceDim{ID: i + 1, Description: desc})
	}

	outcomes := lo.FilterMap(records, func(n models.Notification, _ int) (string, bool) {
		return n.Outcome.String, n.Outcome.Valid
	})
	for i, desc := range lo.Uniq(outcomes) {
		dims.Outcomes = append(dims.Outcomes, models.OutcomeDim{ID: i + 1, Description: desc})
	}

	b.logger.Info("Измерения построены: локализаций %d, симптомов %d, заболеваний %d, рас %d, исходов %d, статусов вакцинации %d, доз %d",
		len(dims.Locations), len(dims.Symptoms), len(dims.Conditions), len(dims.Races),
		len(dims.Outcomes), len(dims.VaccineStatus), len(dims.Doses))

	return dims
}

// BuildLocations объединяет места проживания и уведомления в одно измерение.
// Сначала идут строки проживания всех записей, затем строки уведомления;
// строки без кода муниципалитета отбрасываются, при повторе кода остается первая
func BuildLocations(records []models.Notification) []models.LocationDim {
	groups := make([]models.PlaceColumns, 0, 2*len(records))
	for _, n := range records {
		groups = append(groups, n.Residence)
	}
	for _, n := range records {
		groups = append(groups, n.Reporting)
	}

	seen := make(map[int64]bool)
	var locations []models.LocationDim

	for _, place := range groups {
		if !place.MunicipalityCode.Valid {
			continue
		}
		code := place.MunicipalityCode.Int64
		if seen[code] {
			continue
		}
		seen[code] = true

		locations = append(locations, models.LocationDim{
			ID:               len(locations) + 1,
			StateUF:          place.StateUF,
			StateName:        place.StateName,
			StateCode:        StateCode(code),
			MunicipalityName: place.MunicipalityName,
			MunicipalityCode: code,
		})
	}

	return locations
}

// StateCode возвращает код штата - первые две цифры кода муниципалитета IBGE
func StateCode(municipalityCode int64) int {
	digits := strconv.FormatInt(municipalityCode, 10)
	if len(digits) > stateCodeDigits {
		digits = digits[:stateCodeDigits]
	}
	code, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return code
}

func buildVaccineStatus(records []models.Notification) []models.VaccineStatusDim {
	codes := lo.FilterMap(records, func(n models.Notification, _ int) (int64, bool) {
		return n.VaccineStatus.Int64, n.VaccineStatus.Valid
	})

	var dims []models.VaccineStatusDim
	for i, code := range lo.Uniq(codes) {
		dims = append(dims, models.VaccineStatusDim{ID: i + 1, Code: code})
	}
	return dims
}

func distinctPairValues(pairs []models.ValuePair) []string {
	return lo.Uniq(lo.Map(pairs, func(p models.ValuePair, _ int) string {
		return p.Value
	}))
}
