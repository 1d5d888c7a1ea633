package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/gl"
	"stockroom/internal/infrastructure/storage/postgres"
)

const glEntriesTable = "reg_gl_entries"

var glEntryCols = []string{
	"line_id", "recorder_id", "recorder_type",
	"company_id", "period", "account", "debit", "credit", "memo", "created_at",
}

var _ gl.Repository = (*GLRepo)(nil)

// GLRepo implements the journal entry register persistence.
type GLRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewGLRepo creates a new journal entry repository.
func NewGLRepo(txm *postgres.TxManager) *GLRepo {
	return &GLRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InsertEntries inserts journal entries. Called from the posting hook,
// inside the posting transaction.
func (r *GLRepo) InsertEntries(ctx context.Context, entries []gl.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	q := r.builder.Insert(glEntriesTable).Columns(glEntryCols...)
	for _, e := range entries {
		q = q.Values(
			e.LineID, e.RecorderID, e.RecorderType,
			e.CompanyID, e.Period, e.Account, e.Debit, e.Credit, e.Memo, e.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert journal entries: %w", err)
	}
	return nil
}

// DeleteByRecorder removes all journal entries of a document.
func (r *GLRepo) DeleteByRecorder(ctx context.Context, companyID string, recorderID id.ID) (int64, error) {
	q := r.builder.Delete(glEntriesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete journal entries: %w", err)
	}
	return result.RowsAffected(), nil
}

// GetByRecorder returns the journal entries of a document.
func (r *GLRepo) GetByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]gl.Entry, error) {
	q := r.builder.Select(glEntryCols...).
		From(glEntriesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []gl.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("entries by recorder: %w", err)
	}
	return entries, nil
}

// TrialBalance sums debits and credits per account over a period.
func (r *GLRepo) TrialBalance(ctx context.Context, companyID string, from, to time.Time) ([]gl.AccountBalance, error) {
	q := r.builder.Select(
		"account",
		"COALESCE(SUM(debit), 0) AS debit",
		"COALESCE(SUM(credit), 0) AS credit",
	).
		From(glEntriesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.GtOrEq{"period": from}).
		Where(squirrel.LtOrEq{"period": to}).
		GroupBy("account").
		OrderBy("account")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []gl.AccountBalance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	return balances, nil
}
