package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/treetop/internal/forest"
)

var ErrDuplicateSurvey = errors.New("grid has already been surveyed")

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Survey struct {
	SurveyId    int64     `db:"survey_id"`
	Fingerprint []byte    `db:"fingerprint"`
	Width       int       `db:"width"`
	Height      int       `db:"height"`
	Visible     int       `db:"visible"`
	ScenicScore int64     `db:"scenic_score"`
	BestRow     int       `db:"best_row"`
	BestCol     int       `db:"best_col"`
	Grid        string    `db:"grid"`
	CreatedAt   time.Time `db:"created_at"`
}

type CreateSurveyParams struct {
	Grid   *forest.Grid
	Survey forest.Survey
}

func (q *Queries) CreateSurvey(
	ctx context.Context, params CreateSurveyParams,
) (*Survey, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO survey (
			fingerprint, width, height, visible, scenic_score, best_row, best_col, grid
		)
		VALUES (
			@fingerprint, @width, @height, @visible, @scenic_score, @best_row, @best_col, @grid
		)
		RETURNING *`,
		pgx.NamedArgs{
			"fingerprint":  params.Grid.Fingerprint(),
			"width":        params.Survey.Width,
			"height":       params.Survey.Height,
			"visible":      params.Survey.Visible,
			"scenic_score": params.Survey.ScenicScore,
			"best_row":     params.Survey.BestRow,
			"best_col":     params.Survey.BestCol,
			"grid":         params.Grid.String(),
		},
	)
	survey, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Survey])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrDuplicateSurvey
	}
	return survey, err
}

func (q *Queries) GetSurvey(ctx context.Context, surveyId int64) (*Survey, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM survey WHERE survey_id = $1", surveyId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Survey])
}

func (q *Queries) GetSurveyByFingerprint(ctx context.Context, fingerprint []byte) (*Survey, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM survey WHERE fingerprint = $1", fingerprint,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Survey])
}

type SurveyFilter struct {
	Width  *int
	Height *int
	Limit  int
}

func (f SurveyFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	return strings.Join(clauses, " AND "), args
}

func (f SurveyFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

func (q *Queries) ListSurveys(ctx context.Context, filter SurveyFilter) ([]Survey, error) {
	query := "SELECT * FROM survey"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at DESC, survey_id DESC LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Survey])
}
