package load

import (
	"context"
	"fmt"

	"github.com/LilVoxy/srag_etl/ETL/models"
)

// TableRunLog - журнал запусков ETL
const TableRunLog = "etl_run_log"

// RunLogTable строит однострочную таблицу журнала для записи запуска
func RunLogTable(runLog models.ETLRunLog) Table {
	var errorMessage any
	if runLog.ErrorMessage != "" {
		errorMessage = runLog.ErrorMessage
	}

	return Table{
		Name: TableRunLog,
		Columns: []string{
			"run_id", "arquivo", "inicio", "fim", "status",
			"registros_lidos", "notificacoes_carregadas", "duracao_segundos", "mensagem_erro",
		},
		Rows: [][]any{{
			runLog.RunID,
			runLog.SourceFile,
			runLog.StartTime,
			runLog.EndTime,
			runLog.Status,
			int64(runLog.RowsRead),
			int64(runLog.NotificationsLoaded),
			runLog.ExecutionTimeSeconds(),
			errorMessage,
		}},
	}
}

// AppendRunLog добавляет запись о запуске в etl_run_log
func AppendRunLog(ctx context.Context, writer TableWriter, runLog models.ETLRunLog) error {
	if _, err := writer.Append(ctx, RunLogTable(runLog)); err != nil {
		return fmt.Errorf("ошибка при записи журнала запусков: %w", err)
	}
	return nil
}
