package transform

import (
	"database/sql"
	"time"

	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/models"
)

func day(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func code(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func place(uf, name string, municipality int64) models.PlaceColumns {
	return models.PlaceColumns{
		StateUF:          str(uf),
		StateName:        str(name),
		MunicipalityCode: code(municipality),
	}
}

func allCapabilities() models.Capabilities {
	tests := extractors.ExpectedTestColumns()
	header := append(append([]string{}, extractors.ExpectedColumns...), tests...)
	return models.NewCapabilities(extractors.ExpectedColumns, tests, header)
}
