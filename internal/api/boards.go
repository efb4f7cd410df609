package api

import (
	"net/http"
	"strconv"
	"time"

	"todolist/internal/goals"
	"todolist/internal/model"
)

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

type participantResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type boardResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Created      time.Time             `json:"created"`
	Updated      time.Time             `json:"updated"`
	Participants []participantResponse `json:"participants,omitempty"`
}

func toBoardResponse(b *model.Board, participants []model.BoardParticipant) boardResponse {
	resp := boardResponse{ID: b.ID, Title: b.Title, Created: b.Created, Updated: b.Updated}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, participantResponse{
			UserID: p.UserID,
			Role:   p.Role.String(),
		})
	}
	return resp
}

type boardRequest struct {
	Title        string `json:"title"`
	Participants []struct {
		UserID int64      `json:"user_id"`
		Role   model.Role `json:"role"`
	} `json:"participants"`
}

func (s *Server) handleBoardCreate(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	board, err := s.svc.CreateBoard(r.Context(), userFrom(r).ID, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoardResponse(board, nil))
}

func (s *Server) handleBoardList(w http.ResponseWriter, r *http.Request) {
	boards, err := s.svc.ListBoards(r.Context(), userFrom(r).ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]boardResponse, 0, len(boards))
	for i := range boards {
		resp = append(resp, toBoardResponse(&boards[i], nil))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBoardGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	board, participants, err := s.svc.GetBoard(r.Context(), userFrom(r).ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(board, participants))
}

func (s *Server) handleBoardUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req boardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	grants := make([]goals.ParticipantGrant, 0, len(req.Participants))
	for _, p := range req.Participants {
		grants = append(grants, goals.ParticipantGrant{UserID: p.UserID, Role: p.Role})
	}
	board, err := s.svc.UpdateBoard(r.Context(), userFrom(r).ID, id, req.Title, grants)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(board, nil))
}

func (s *Server) handleBoardDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteBoard(r.Context(), userFrom(r).ID, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
