package api

import (
	"net/http"
	"time"

	"todolist/internal/model"
)

type categoryResponse struct {
	ID      int64     `json:"id"`
	BoardID int64     `json:"board"`
	UserID  int64     `json:"user"`
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:      c.ID,
		BoardID: c.BoardID,
		UserID:  c.UserID,
		Title:   c.Title,
		Created: c.Created,
		Updated: c.Updated,
	}
}

type categoryCreateRequest struct {
	BoardID int64  `json:"board"`
	Title   string `json:"title"`
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := s.svc.CreateCategory(r.Context(), userFrom(r).ID, req.BoardID, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.ListCategories(r.Context(), userFrom(r).ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	category, err := s.svc.GetCategory(r.Context(), userFrom(r).ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := s.svc.UpdateCategory(r.Context(), userFrom(r).ID, id, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), userFrom(r).ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
