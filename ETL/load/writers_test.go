package load

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var symptomsTable = Table{
	Name:    TableSymptoms,
	Columns: []string{"id_sintoma", "nome_sintoma"},
	Rows:    [][]any{{int64(1), "Febre"}, {int64(2), "Tosse"}},
}

func TestInsertQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INSERT INTO srag.dim_sintomas (id_sintoma, nome_sintoma) VALUES (?, ?)", InsertQuery("srag", symptomsTable))
	assert.Equal(t, "INSERT INTO dim_sintomas (id_sintoma, nome_sintoma) VALUES (?, ?)", InsertQuery("", symptomsTable))
}

func TestMySQLWriter_Append(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	query := regexp.QuoteMeta(InsertQuery("srag", symptomsTable))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(query)
	prep.ExpectExec().WithArgs(int64(1), "Febre").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(2), "Tosse").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	w := NewMySQLWriter(db, "srag")
	n, err := w.Append(context.Background(), symptomsTable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, w.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLWriter_Append_RollbackOnError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(InsertQuery("srag", symptomsTable)))
	prep.ExpectExec().WithArgs(int64(1), "Febre").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(2), "Tosse").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	n, err := NewMySQLWriter(db, "srag").Append(context.Background(), symptomsTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.Contains(t, err.Error(), TableSymptoms)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLWriter_Append_Empty(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n, err := NewMySQLWriter(db, "srag").Append(context.Background(), Table{Name: TableDoses})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_Append(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectCopyFrom(pgx.Identifier{"public", TableSymptoms}, symptomsTable.Columns).WillReturnResult(2)
	mock.ExpectClose()

	w := NewPostgresWriter(mock, "public")
	n, err := w.Append(context.Background(), symptomsTable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, w.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_Append_Error(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"public", TableSymptoms}, symptomsTable.Columns).
		WillReturnError(errors.New("relation does not exist"))

	_, err = NewPostgresWriter(mock, "public").Append(context.Background(), symptomsTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}
