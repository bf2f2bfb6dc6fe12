package www

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/metrics"
	"github.com/icodeforyou/solarproposal-go/report"
)

func NewExportHandler(logger *slog.Logger, db ProposalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("format")
		if name == "" {
			name = string(report.FormatXLSX)
		}
		format, ok := report.ParseFormat(name)
		if !ok {
			writeError(logger, w, fmt.Errorf("%w: unsupported export format %q", calc.ErrValidation, name))
			return
		}

		out, row, err := loadProposal(r, db)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		buf, err := report.Build(format, out.Summary, out.Months, row.CreatedAt.Year())
		metrics.IncExport(string(format), err)
		if err != nil {
			writeError(logger, w, fmt.Errorf("exporting proposal %d: %w", out.Id, err))
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"proposal-%d.%s\"", out.Id, format))
		w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
		if _, err := w.Write(buf); err != nil {
			logger.Warn("writing export", slog.Any("error", err))
		}
	}
}
