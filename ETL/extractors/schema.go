package extractors

import "fmt"

// Колонки выгрузки e-SUS Notifica
const (
	ColState                  = "estado"
	ColStateUF                = "estadoIBGE"
	ColMunicipality           = "municipio"
	ColMunicipalityCode       = "municipioIBGE"
	ColReportState            = "estadoNotificacao"
	ColReportStateUF          = "estadoNotificacaoIBGE"
	ColReportMunicipality     = "municipioNotificacao"
	ColReportMunicipalityCode = "municipioNotificacaoIBGE"

	ColSex            = "sexo"
	ColAge            = "idade"
	ColRace           = "racaCor"
	ColHealthWorker   = "profissionalSaude"
	ColSecurityWorker = "profissionalSeguranca"
	ColCBO            = "cbo"
	ColOutcome        = "evolucaoCaso"
	ColClassification = "classificacaoFinal"

	ColNotificationDate = "dataNotificacao"
	ColSymptomOnsetDate = "dataInicioSintomas"
	ColClosureDate      = "dataEncerramento"
	ColFirstDoseDate    = "dataPrimeiraDose"
	ColSecondDoseDate   = "dataSegundaDose"

	ColSymptoms      = "sintomas"
	ColConditions    = "condicoes"
	ColVaccineStatus = "codigoRecebeuVacina"
	ColVaccineDoses  = "codigoDosesVacina"
	ColFirstDoseLab  = "codigoLaboratorioPrimeiraDose"
	ColCovidStrategy = "codigoEstrategiaCovid"
)

// Метрики слотов тестов; полное имя колонки - метрика + номер слота 1..4
const (
	MetricTestType     = "codigoTipoTeste"
	MetricManufacturer = "codigoFabricanteTeste"
	MetricTestState    = "codigoEstadoTeste"
	MetricTestResult   = "codigoResultadoTeste"
	MetricCollectDate  = "dataColetaTeste"

	TestSlots = 4
)

// DateMarker - подстрока, по которой колонка считается датой (без учета регистра)
const DateMarker = "data"

// DroppedColumns - колонки, не используемые пайплайном
var DroppedColumns = []string{
	"source_id",
	"excluido",
	"validado",
	"outroBuscaAtivaAssintomatico",
	"outroTriagemPopulacaoEspecifica",
	"outroLocalRealizacaoTestagem",
}

// RequiredColumns - без этих колонок запуск невозможен
var RequiredColumns = []string{
	ColNotificationDate,
}

// TestMetrics перечисляет метрики слота теста в порядке вывода
var TestMetrics = []string{
	MetricTestType,
	MetricManufacturer,
	MetricTestState,
	MetricTestResult,
	MetricCollectDate,
}

// ExpectedColumns перечисляет скалярные колонки, которые понимает пайплайн
var ExpectedColumns = []string{
	ColState, ColStateUF, ColMunicipality, ColMunicipalityCode,
	ColReportState, ColReportStateUF, ColReportMunicipality, ColReportMunicipalityCode,
	ColSex, ColAge, ColRace, ColHealthWorker, ColSecurityWorker, ColCBO, ColOutcome, ColClassification,
	ColNotificationDate, ColSymptomOnsetDate, ColClosureDate, ColFirstDoseDate, ColSecondDoseDate,
	ColSymptoms, ColConditions, ColVaccineStatus, ColVaccineDoses, ColFirstDoseLab, ColCovidStrategy,
}

// TestColumnName возвращает имя широкой колонки для метрики и слота
func TestColumnName(metric string, slot int) string {
	return fmt.Sprintf("%s%d", metric, slot)
}

// ExpectedTestColumns перечисляет все колонки слотов (slot-major, как в выгрузке)
func ExpectedTestColumns() []string {
	columns := make([]string, 0, TestSlots*len(TestMetrics))
	for slot := 1; slot <= TestSlots; slot++ {
		for _, metric := range TestMetrics {
			columns = append(columns, TestColumnName(metric, slot))
		}
	}
	return columns
}
