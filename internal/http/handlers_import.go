package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/statement"
)

const maxStatementSize = 5 << 20 // 5 MiB

type importData struct {
	Theme   string
	Pending []core.Transaction
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	imp := s.importSession(sessionID(r.Context()))
	s.render(w, r, "import.html", importData{
		Theme:   s.theme(r),
		Pending: imp.Pending(),
	})
}

// handleImportPreview uploads a CSV statement and renders the proposed rows.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementSize)
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		s.renderAlert(w, http.StatusRequestEntityTooLarge, "Statement file is too large (max 5 MB).")
		return
	}
	file, header, err := r.FormFile("statement")
	if err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Choose a CSV file to upload.")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Only CSV statements are supported.")
		return
	}

	imp := s.importSession(sessionID(r.Context()))
	rows, err := imp.Preview(r.Context(), header.Filename, file)
	if err != nil {
		s.failure(w, r, err, "preview statement")
		return
	}

	s.logger.InfoContext(r.Context(), "Statement previewed",
		log.FieldTxnCount, len(rows),
		"filename", header.Filename)
	s.render(w, r, "import_preview.html", importData{Theme: s.theme(r), Pending: rows})
}

func (s *Server) handleImportRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}
	index, err := strconv.Atoi(r.Form.Get("index"))
	if err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid row index.")
		return
	}

	imp := s.importSession(sessionID(r.Context()))
	if err := imp.Remove(index); err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.render(w, r, "import_preview.html", importData{Theme: s.theme(r), Pending: imp.Pending()})
}

// handleImportConfirm persists the remaining previewed rows in one batch.
// On failure the preview list is retained so the user can retry.
func (s *Server) handleImportConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sid := sessionID(r.Context())
	imp := s.importSession(sid)
	pending := imp.Pending()

	if err := imp.Confirm(r.Context()); err != nil {
		if errors.Is(err, statement.ErrNothingPending) {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Nothing to import.")
			return
		}
		s.failure(w, r, err, "confirm statement")
		return
	}

	s.invalidateTxns(sid)
	// Imported rows can span several months; refresh each affected period.
	seen := make(map[string]bool)
	for _, t := range pending {
		month, year := int(t.Date.Month()), t.Date.Year()
		key := strconv.Itoa(year) + "-" + strconv.Itoa(month)
		if seen[key] {
			continue
		}
		seen[key] = true
		s.invalidatePeriod(sid, month, year)
		s.publishRefresh(r, month, year, amqp.ReasonStatementImported)
	}

	s.logger.InfoContext(r.Context(), "Statement imported", log.FieldTxnCount, len(pending))
	w.Header().Set("HX-Trigger", `{"txn:created": {}}`)
	s.renderSuccess(w, "Imported "+strconv.Itoa(len(pending))+" transactions.")
}

func (s *Server) handleImportDiscard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	imp := s.importSession(sessionID(r.Context()))
	imp.Discard()
	s.render(w, r, "import_preview.html", importData{Theme: s.theme(r), Pending: nil})
}
