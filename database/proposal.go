package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type ProposalRow struct {
	Id               int64
	CreatedAt        time.Time
	Customer         string
	Address          string
	SystemCost       int64
	AnnualUsage      float64
	AnnualProduction float64
	Status           string
	BreakevenMonth   sql.NullInt64
	YearsInProfit    sql.NullInt64
	NetSavings       int64
	Input            string // JSON
	Summary          string // JSON
}

type ProposalMonthRow struct {
	MonthIndex         int
	StandardCost       int64
	SolarCost          int64
	CumulativeStandard int64
	CumulativeSolar    int64
	CarriedCredit      float64 // kWh
}

// SaveProposal stores a proposal and its simulated months in one
// transaction and returns the new id.
func (d *Database) SaveProposal(ctx context.Context, p ProposalRow, months []ProposalMonthRow) (int64, error) {
	d.logger.Debug("saving proposal",
		slog.String("customer", p.Customer),
		slog.Int("months", len(months)))

	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("start transaction for proposal: %w", err)
	}
	defer tx.Rollback()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO proposal (created_at, customer, address, system_cost, annual_usage, annual_production,
			status, breakeven_month, years_in_profit, net_savings, input, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.Customer,
		p.Address,
		p.SystemCost,
		p.AnnualUsage,
		p.AnnualProduction,
		p.Status,
		p.BreakevenMonth,
		p.YearsInProfit,
		p.NetSavings,
		p.Input,
		p.Summary)
	if err != nil {
		return 0, fmt.Errorf("saving proposal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get proposal id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO proposal_month (proposal_id, month_index, standard_cost, solar_cost,
			cumulative_standard, cumulative_solar, carried_credit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare proposal month insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range months {
		_, err := stmt.ExecContext(ctx, id, m.MonthIndex, m.StandardCost, m.SolarCost,
			m.CumulativeStandard, m.CumulativeSolar, m.CarriedCredit)
		if err != nil {
			return 0, fmt.Errorf("saving proposal month %d: %w", m.MonthIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit proposal: %w", err)
	}

	return id, nil
}

const proposalColumns = `id, created_at, customer, address, system_cost, annual_usage, annual_production,
	status, breakeven_month, years_in_profit, net_savings, input, summary`

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(row scanner) (ProposalRow, error) {
	var p ProposalRow
	var createdAt string
	err := row.Scan(&p.Id, &createdAt, &p.Customer, &p.Address, &p.SystemCost, &p.AnnualUsage,
		&p.AnnualProduction, &p.Status, &p.BreakevenMonth, &p.YearsInProfit, &p.NetSavings,
		&p.Input, &p.Summary)
	if err != nil {
		return ProposalRow{}, err
	}
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return ProposalRow{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return p, nil
}

func (d *Database) GetProposal(ctx context.Context, id int64) (ProposalRow, error) {
	row := d.read.QueryRowContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		WHERE id = ?`, id)

	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProposalRow{}, fmt.Errorf("proposal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ProposalRow{}, fmt.Errorf("scanning proposal row: %w", err)
	}
	return p, nil
}

func (d *Database) GetProposalMonths(ctx context.Context, id int64) ([]ProposalMonthRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT month_index, standard_cost, solar_cost, cumulative_standard, cumulative_solar, carried_credit
		FROM proposal_month
		WHERE proposal_id = ?
		ORDER BY month_index ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("fetching months of proposal %d: %w", id, err)
	}
	defer rows.Close()

	var res []ProposalMonthRow
	for rows.Next() {
		var m ProposalMonthRow
		err := rows.Scan(&m.MonthIndex, &m.StandardCost, &m.SolarCost, &m.CumulativeStandard,
			&m.CumulativeSolar, &m.CarriedCredit)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal month row: %w", err)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading proposal month rows: %w", err)
	}

	return res, nil
}

// ListProposals returns a page of proposals, newest first.
func (d *Database) ListProposals(ctx context.Context, page, pageSize int) ([]ProposalRow, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching proposals: %w", err)
	}
	defer rows.Close()

	var res []ProposalRow
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal row: %w", err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading proposal rows: %w", err)
	}

	return res, nil
}

func (d *Database) CountProposals(ctx context.Context) (int, error) {
	var n int
	if err := d.read.QueryRowContext(ctx, "SELECT COUNT(*) FROM proposal").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting proposals: %w", err)
	}
	return n, nil
}

// PurgeProposals deletes proposals older than retentionDays together with
// their months.
func (d *Database) PurgeProposals(ctx context.Context, retentionDays int) error {
	if retentionDays < 1 {
		return nil
	}
	_, err := d.purgeTable(ctx, "proposal", "created_at", retentionDays)
	return err
}
