package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// Transformer координирует преобразование плоской выгрузки в звездную схему
type Transformer struct {
	logger        *utils.ETLLogger
	imputer       *Imputer
	dimBuilder    *DimensionBuilder
	factAssembler *FactAssembler
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:        logger,
		imputer:       NewImputer(logger),
		dimBuilder:    NewDimensionBuilder(logger),
		factAssembler: NewFactAssembler(logger),
	}
}

// Transform выполняет этапы очистки, нормализации, разворота тестов,
// построения измерений и сборки фактов
func (t *Transformer) Transform(extractedData *models.ExtractedData) (*models.StarSchema, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Преобразование данных)")

	caps := extractedData.Capabilities

	// 1. Заполнение пропусков
	t.logger.Info("Заполнение пропусков...")
	cleaned := t.imputer.Impute(extractedData.Notifications, caps)

	// 2. Нормализация многозначных полей
	t.logger.Info("Нормализация многозначных полей...")
	pairs := MultiValuedPairs{
		Symptoms:   SplitMultiValued(cleaned, SymptomsField),
		Conditions: SplitMultiValued(cleaned, ConditionsField),
		Doses:      SplitMultiValued(cleaned, DosesField),
	}

	// 3. Разворот слотов тестов
	t.logger.Info("Разворот слотов тестов...")
	tests := UnpivotTests(cleaned, caps.TestColumns())
	t.logger.Debug("Получено %d индивидуальных тестов", len(tests))

	// 4. Измерения
	t.logger.Info("Построение измерений...")
	dims := t.dimBuilder.Build(cleaned, pairs)

	// 5. Факты
	t.logger.Info("Сборка таблиц фактов...")
	schema, err := t.factAssembler.Assemble(cleaned, dims, pairs)
	if err != nil {
		t.logger.Error("Ошибка при сборке фактов: %v", err)
		return nil, fmt.Errorf("ошибка при сборке фактов: %w", err)
	}
	schema.Tests = tests
	schema.Capabilities = caps

	// 6. Проверка ссылочной целостности
	if err := VerifyReferences(schema); err != nil {
		t.logger.Error("Нарушена ссылочная целостность: %v", err)
		return nil, fmt.Errorf("нарушена ссылочная целостность: %w", err)
	}

	t.logger.Info("Фаза Transform завершена. Длительность: %v", time.Since(startTime))
	return schema, nil
}

// VerifyReferences проверяет, что каждый непустой внешний ключ фактов
// существует в соответствующем измерении
func VerifyReferences(schema *models.StarSchema) error {
	dims := schema.Dimensions

	locations := keySet(len(dims.Locations), func(i int) int { return dims.Locations[i].ID })
	races := keySet(len(dims.Races), func(i int) int { return dims.Races[i].ID })
	outcomes := keySet(len(dims.Outcomes), func(i int) int { return dims.Outcomes[i].ID })
	statuses := keySet(len(dims.VaccineStatus), func(i int) int { return dims.VaccineStatus[i].ID })
	symptoms := keySet(len(dims.Symptoms), func(i int) int { return dims.Symptoms[i].ID })
	conditions := keySet(len(dims.Conditions), func(i int) int { return dims.Conditions[i].ID })
	doses := keySet(len(dims.Doses), func(i int) int { return dims.Doses[i].ID })
	notifications := keySet(len(schema.Notifications), func(i int) int { return schema.Notifications[i].NotificationID })

	check := func(table string, id int, fk string, value int64, valid bool, keys map[int]bool) error {
		if valid && !keys[int(value)] {
			return fmt.Errorf("%s: %s=%d (уведомление %d) не найден", table, fk, value, id)
		}
		return nil
	}

	for _, f := range schema.Notifications {
		for _, c := range []struct {
			fk   string
			v    int64
			ok   bool
			keys map[int]bool
		}{
			{"fk_localidade_residencia", f.ResidenceID.Int64, f.ResidenceID.Valid, locations},
			{"fk_localidade_notificacao", f.ReportingID.Int64, f.ReportingID.Valid, locations},
			{"fk_raca_cor", f.RaceID.Int64, f.RaceID.Valid, races},
			{"fk_evolucao_caso", f.OutcomeID.Int64, f.OutcomeID.Valid, outcomes},
			{"fk_status_vacinal", f.VaccineStatusID.Int64, f.VaccineStatusID.Valid, statuses},
		} {
			if err := check("fato_notificacoes", f.NotificationID, c.fk, c.v, c.ok, c.keys); err != nil {
				return err
			}
		}
	}

	for _, r := range schema.Symptoms {
		if err := check("fato_notificacao_sintoma", r.NotificationID, "fk_sintoma", int64(r.SymptomID), true, symptoms); err != nil {
			return err
		}
		if err := check("fato_notificacao_sintoma", r.NotificationID, "fk_notificacao", int64(r.NotificationID), true, notifications); err != nil {
			return err
		}
	}
	for _, r := range schema.Conditions {
		if err := check("fato_notificacao_condicao", r.NotificationID, "fk_condicao", int64(r.ConditionID), true, conditions); err != nil {
			return err
		}
		if err := check("fato_notificacao_condicao", r.NotificationID, "fk_notificacao", int64(r.NotificationID), true, notifications); err != nil {
			return err
		}
	}
	for _, r := range schema.Doses {
		if err := check("fato_notificacao_dose", r.NotificationID, "fk_dose", int64(r.DoseID), true, doses); err != nil {
			return err
		}
		if err := check("fato_notificacao_dose", r.NotificationID, "fk_notificacao", int64(r.NotificationID), true, notifications); err != nil {
			return err
		}
	}
	for _, r := range schema.Tests {
		if err := check("fato_testes_realizados", r.NotificationID, "fk_notificacao", int64(r.NotificationID), true, notifications); err != nil {
			return err
		}
	}

	return nil
}

func keySet(n int, key func(i int) int) map[int]bool {
	set := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		set[key(i)] = true
	}
	return set
}
