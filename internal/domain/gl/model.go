// Package gl provides the general ledger register: double-entry journal
// lines recorded as a side effect of document posting.
package gl

import (
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Account codes of the built-in chart of accounts.
const (
	AccountCash            = "1100"
	AccountInventory       = "1400"
	AccountPayable         = "2100"
	AccountSales           = "4100"
	AccountCOGS            = "5100"
	AccountStockAdjustment = "5900"
)

// Entry is one journal line. Entries are immutable; a document's entries
// are deleted wholesale when it is unposted.
type Entry struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	RecorderID   id.ID  `db:"recorder_id" json:"recorderId"`
	RecorderType string `db:"recorder_type" json:"recorderType"`

	CompanyID string    `db:"company_id" json:"companyId"`
	Period    time.Time `db:"period" json:"period"`

	Account string      `db:"account" json:"account"`
	Debit   types.Money `db:"debit" json:"debit"`
	Credit  types.Money `db:"credit" json:"credit"`

	// Memo is a short human-readable description
	Memo string `db:"memo" json:"memo,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Journal collects the entries of one posting and enforces balance.
type Journal struct {
	recorderID   id.ID
	recorderType string
	companyID    string
	period       time.Time

	entries []Entry
}

// NewJournal starts a journal for one recorder document.
func NewJournal(recorderID id.ID, recorderType, companyID string, period time.Time) *Journal {
	return &Journal{
		recorderID:   recorderID,
		recorderType: recorderType,
		companyID:    companyID,
		period:       period,
	}
}

// Debit adds a debit line.
func (j *Journal) Debit(account string, amount types.Money, memo string) *Journal {
	j.add(account, amount, types.ZeroMoney(), memo)
	return j
}

// Credit adds a credit line.
func (j *Journal) Credit(account string, amount types.Money, memo string) *Journal {
	j.add(account, types.ZeroMoney(), amount, memo)
	return j
}

func (j *Journal) add(account string, debit, credit types.Money, memo string) {
	j.entries = append(j.entries, Entry{
		LineID:       id.New(),
		RecorderID:   j.recorderID,
		RecorderType: j.recorderType,
		CompanyID:    j.companyID,
		Period:       j.period,
		Account:      account,
		Debit:        debit,
		Credit:       credit,
		Memo:         memo,
		CreatedAt:    time.Now().UTC(),
	})
}

// Entries validates that debits equal credits and returns the lines.
func (j *Journal) Entries() ([]Entry, error) {
	debits := types.ZeroMoney()
	credits := types.ZeroMoney()
	for _, e := range j.entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	if !debits.Equal(credits) {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Journal is not balanced",
		).WithDetail("debits", debits.String()).
			WithDetail("credits", credits.String())
	}
	return j.entries, nil
}

// AccountBalance is one row of a trial balance.
type AccountBalance struct {
	Account string      `db:"account" json:"account"`
	Debit   types.Money `db:"debit" json:"debit"`
	Credit  types.Money `db:"credit" json:"credit"`
}
