package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"todolist/internal/goals"
	"todolist/internal/model"
)

type goalResponse struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"category"`
	UserID      int64      `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      int        `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
}

func toGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		CategoryID:  g.CategoryID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Status:      int(g.Status),
		Priority:    int(g.Priority),
		DueDate:     g.DueDate,
		Created:     g.Created,
		Updated:     g.Updated,
	}
}

type goalCreateRequest struct {
	CategoryID  int64      `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *Server) handleGoalCreate(w http.ResponseWriter, r *http.Request) {
	var req goalCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	goal, err := s.svc.CreateGoal(r.Context(), userFrom(r).ID, goals.CreateGoalInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

// parseGoalFilter reads the list narrowing parameters from the query string.
// Multi-value parameters take comma-separated lists.
func parseGoalFilter(r *http.Request) (goals.GoalFilter, error) {
	var filter goals.GoalFilter
	q := r.URL.Query()

	for _, raw := range splitCSV(q.Get("category")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}
	for _, raw := range splitCSV(q.Get("status")) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, model.GoalStatus(v))
	}
	for _, raw := range splitCSV(q.Get("priority")) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Priorities = append(filter.Priorities, model.Priority(v))
	}
	if raw := q.Get("due_date__lte"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.DueBefore = &t
	}
	if raw := q.Get("due_date__gte"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.DueAfter = &t
	}
	filter.Search = q.Get("search")
	return filter, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGoalFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid filter"})
		return
	}
	list, err := s.svc.ListGoals(r.Context(), userFrom(r).ID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]goalResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toGoalResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoalGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	goal, err := s.svc.GetGoal(r.Context(), userFrom(r).ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

type goalUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *int       `json:"status"`
	Priority    *int       `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *Server) handleGoalUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req goalUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in := goals.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		v := model.GoalStatus(*req.Status)
		in.Status = &v
	}
	if req.Priority != nil {
		v := model.Priority(*req.Priority)
		in.Priority = &v
	}
	goal, err := s.svc.UpdateGoal(r.Context(), userFrom(r).ID, id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteGoal(r.Context(), userFrom(r).ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
