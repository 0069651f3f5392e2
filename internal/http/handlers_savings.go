package http

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/savings"
)

type goalView struct {
	Goal          core.SavingsGoal
	Progress      int
	Completed     bool
	DeleteWarning string
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSavings(w, r)
	case http.MethodPost:
		s.handleGoalCreate(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderSavings(w http.ResponseWriter, r *http.Request) {
	goals, err := s.client(r).ListGoals(r.Context())
	if err != nil {
		s.failure(w, r, err, "list goals")
		return
	}

	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = goalView{
			Goal:          g,
			Progress:      g.Progress(),
			Completed:     g.Completed(),
			DeleteWarning: savings.DeleteWarning(g),
		}
	}
	s.render(w, r, "savings.html", struct {
		Theme string
		Goals []goalView
	}{Theme: s.theme(r), Goals: views})
}

func (s *Server) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}

	target, err := core.ParseAmount(r.Form.Get("target"))
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Target must be a positive number.")
		return
	}
	goal := core.SavingsGoal{
		Name:         sanitizeInput(r.Form.Get("name")),
		TargetAmount: target,
	}
	if v := strings.TrimSpace(r.Form.Get("targetDate")); v != "" {
		d, perr := time.ParseInLocation("2006-01-02", v, time.Local)
		if perr != nil {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Target date must be YYYY-MM-DD.")
			return
		}
		goal.TargetDate = &d
	}
	if err := goal.Validate(); err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Invalid goal: "+err.Error())
		return
	}

	if err := s.client(r).CreateGoal(r.Context(), goal); err != nil {
		s.failure(w, r, err, "create goal")
		return
	}
	w.Header().Set("HX-Trigger", `{"goal:changed": {}}`)
	s.renderSuccess(w, "Savings goal created.")
}

func (s *Server) handleGoalUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}

	target, err := core.ParseAmount(r.Form.Get("target"))
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Target must be a positive number.")
		return
	}
	goal := core.SavingsGoal{
		ID:           strings.TrimSpace(r.Form.Get("id")),
		Name:         sanitizeInput(r.Form.Get("name")),
		TargetAmount: target,
	}
	if goal.ID == "" {
		s.renderAlert(w, http.StatusBadRequest, "Missing goal id.")
		return
	}
	if v := strings.TrimSpace(r.Form.Get("targetDate")); v != "" {
		d, perr := time.ParseInLocation("2006-01-02", v, time.Local)
		if perr != nil {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Target date must be YYYY-MM-DD.")
			return
		}
		goal.TargetDate = &d
	}
	if err := goal.Validate(); err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Invalid goal: "+err.Error())
		return
	}

	if err := s.client(r).UpdateGoal(r.Context(), goal); err != nil {
		s.failure(w, r, err, "update goal")
		return
	}
	w.Header().Set("HX-Trigger", `{"goal:changed": {}}`)
	s.renderSuccess(w, "Savings goal updated.")
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		s.renderAlert(w, http.StatusBadRequest, "Missing goal id.")
		return
	}

	if err := s.client(r).DeleteGoal(r.Context(), id); err != nil {
		s.failure(w, r, err, "delete goal")
		return
	}
	s.logger.InfoContext(r.Context(), "Goal deleted", log.FieldGoalID, id)
	w.Header().Set("HX-Trigger", `{"goal:changed": {}}`)
	s.renderSuccess(w, "Savings goal deleted.")
}

// handleContribute moves money into a goal. The amount check is cheap; the
// backend repeats it authoritatively.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	s.handleBalanceChange(w, r, "contribute")
}

// handleWithdraw moves money out of a goal. Withdrawals exceeding the
// balance are rejected here, before the request leaves the process.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleBalanceChange(w, r, "withdraw")
}

func (s *Server) handleBalanceChange(w http.ResponseWriter, r *http.Request, op string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		s.renderAlert(w, http.StatusBadRequest, "Missing goal id.")
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Amount must be a positive number.")
		return
	}

	client := s.client(r)
	switch op {
	case "contribute":
		if err := savings.ValidateContribute(amount); err != nil {
			s.renderAlert(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		err = client.Contribute(r.Context(), id, amount)
	case "withdraw":
		goals, gerr := client.ListGoals(r.Context())
		if gerr != nil {
			s.failure(w, r, gerr, "list goals for withdraw")
			return
		}
		var goal *core.SavingsGoal
		for i := range goals {
			if goals[i].ID == id {
				goal = &goals[i]
				break
			}
		}
		if goal == nil {
			s.renderAlert(w, http.StatusNotFound, "Goal not found.")
			return
		}
		if verr := savings.ValidateWithdraw(*goal, amount); verr != nil {
			s.renderAlert(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		err = client.Withdraw(r.Context(), id, amount)
	}
	if err != nil {
		s.failure(w, r, err, op)
		return
	}

	w.Header().Set("HX-Trigger", `{"goal:changed": {}}`)
	s.renderSuccess(w, "Balance updated.")
}
