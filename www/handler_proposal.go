package www

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/database"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
)

type ProposalStore interface {
	GetProposal(ctx context.Context, id int64) (database.ProposalRow, error)
	GetProposalMonths(ctx context.Context, id int64) ([]database.ProposalMonthRow, error)
	ListProposals(ctx context.Context, page, pageSize int) ([]database.ProposalRow, error)
	CountProposals(ctx context.Context) (int, error)
}

type ProposalRunner interface {
	Run(ctx context.Context, in proposal.Input) (*proposal.Output, error)
}

type proposalListItem struct {
	Id             int64            `json:"id"`
	CreatedAt      time.Time        `json:"createdAt"`
	Customer       string           `json:"customer"`
	Address        string           `json:"address"`
	SystemCost     int64            `json:"systemCost"`
	Status         string           `json:"status"`
	BreakevenMonth maybe.Maybe[int] `json:"breakevenMonth"`
	NetSavings     int64            `json:"netSavings"`
}

type proposalList struct {
	Page      int                `json:"page"`
	PageSize  int                `json:"pageSize"`
	Total     int                `json:"total"`
	Proposals []proposalListItem `json:"proposals"`
}

func NewCreateProposalHandler(logger *slog.Logger, runner ProposalRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in proposal.Input
		if err := decodeJson(w, r, &in); err != nil {
			writeError(logger, w, fmt.Errorf("%w: invalid proposal: %v", calc.ErrValidation, err))
			return
		}

		out, err := runner.Run(r.Context(), in)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		logger.Info("proposal created",
			slog.Int64("id", out.Id),
			slog.String("customer", in.Customer),
			slog.String("status", out.Summary.Status.String()))
		writeJson(logger, w, http.StatusCreated, out)
	}
}

func NewListProposalsHandler(logger *slog.Logger, db ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := max(1, intOrDefault(r.URL, "page", 1))
		pageSize := min(100, max(1, intOrDefault(r.URL, "pageSize", 25)))

		rows, err := db.ListProposals(r.Context(), page, pageSize)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		total, err := db.CountProposals(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}

		list := proposalList{Page: page, PageSize: pageSize, Total: total, Proposals: make([]proposalListItem, 0, len(rows))}
		for _, row := range rows {
			list.Proposals = append(list.Proposals, proposalListItem{
				Id:             row.Id,
				CreatedAt:      row.CreatedAt,
				Customer:       row.Customer,
				Address:        row.Address,
				SystemCost:     row.SystemCost,
				Status:         row.Status,
				BreakevenMonth: maybe.SqlNull(int(row.BreakevenMonth.Int64), row.BreakevenMonth.Valid),
				NetSavings:     row.NetSavings,
			})
		}
		writeJson(logger, w, http.StatusOK, list)
	}
}

func NewGetProposalHandler(logger *slog.Logger, db ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, _, err := loadProposal(r, db)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJson(logger, w, http.StatusOK, out)
	}
}

func NewProposalPageHandler(logger *slog.Logger, db ProposalStore, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, row, err := loadProposal(r, db)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		data := struct {
			Id        int64
			CreatedAt time.Time
			Summary   proposal.Summary
		}{
			Id:        out.Id,
			CreatedAt: row.CreatedAt,
			Summary:   out.Summary,
		}

		w.Header().Set("Content-Type", "text/html")
		if err := tm.ExecuteToWriter("proposal.html", data, w); err != nil {
			logger.Error("handling proposal page request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// loadProposal reads the proposal named by the {id} path segment.
func loadProposal(r *http.Request, db ProposalStore) (*proposal.Output, database.ProposalRow, error) {
	id, ok := pathId(r)
	if !ok {
		return nil, database.ProposalRow{}, fmt.Errorf("%w: invalid proposal id %q", calc.ErrValidation, r.PathValue("id"))
	}

	row, err := db.GetProposal(r.Context(), id)
	if err != nil {
		return nil, database.ProposalRow{}, err
	}
	ms, err := db.GetProposalMonths(r.Context(), id)
	if err != nil {
		return nil, database.ProposalRow{}, err
	}

	out, err := proposal.FromRows(row, ms)
	if err != nil {
		return nil, database.ProposalRow{}, err
	}
	return out, row, nil
}

func NewProposalsPageHandler(logger *slog.Logger, db ProposalStore, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := max(1, intOrDefault(r.URL, "page", 1))
		pageSize := 25

		rows, err := db.ListProposals(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("handling proposals page request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data := struct {
			Page      int
			NextPage  int
			Proposals []database.ProposalRow
		}{
			Page:      page,
			Proposals: rows,
		}
		if len(rows) == pageSize {
			data.NextPage = page + 1
		}

		w.Header().Set("Content-Type", "text/html")
		if err := tm.ExecuteToWriter("proposals.html", data, w); err != nil {
			logger.Error("handling proposals page request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
