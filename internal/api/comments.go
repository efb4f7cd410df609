package api

import (
	"net/http"
	"strconv"
	"time"

	"todolist/internal/model"
)

type commentResponse struct {
	ID      int64     `json:"id"`
	GoalID  int64     `json:"goal"`
	UserID  int64     `json:"user"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:      c.ID,
		GoalID:  c.GoalID,
		UserID:  c.UserID,
		Text:    c.Text,
		Created: c.Created,
		Updated: c.Updated,
	}
}

type commentCreateRequest struct {
	GoalID int64  `json:"goal"`
	Text   string `json:"text"`
}

func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := s.svc.CreateComment(r.Context(), userFrom(r).ID, req.GoalID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// handleCommentList requires a goal query parameter; comments are always read
// in the context of one goal.
func (s *Server) handleCommentList(w http.ResponseWriter, r *http.Request) {
	goalID, err := strconv.ParseInt(r.URL.Query().Get("goal"), 10, 64)
	if err != nil || goalID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "goal parameter is required"})
		return
	}
	comments, err := s.svc.ListComments(r.Context(), userFrom(r).ID, goalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]commentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, toCommentResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCommentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := s.svc.UpdateComment(r.Context(), userFrom(r).ID, id, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteComment(r.Context(), userFrom(r).ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
