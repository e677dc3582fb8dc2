package http

import (
	"net/http"

	"urmoney/internal/core"
	"urmoney/internal/log"
)

type categoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err, categoryErrors)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	NewJSONResponse().Payload(cats).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(categoryErrors.notFound).Write(w)
		return
	}
	cat, err := s.ledger.GetCategory(r.Context(), id)
	if err != nil {
		s.fail(w, r, log.OpRead, err, categoryErrors)
		return
	}
	NewJSONResponse().Payload(cat).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, log.OpCreate, err, categoryErrors)
		return
	}
	in, err := categoryInput(parser)
	if err != nil {
		s.fail(w, r, log.OpCreate, err, categoryErrors)
		return
	}

	cat, err := s.ledger.CreateCategory(r.Context(), in)
	if err != nil {
		s.fail(w, r, log.OpCreate, err, categoryErrors)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Payload(categoryResponse{ID: cat.ID, Name: cat.Name, Color: cat.Color}).
		Write(w)
}

// handleUpdateCategory keeps the stored color when none is submitted, so the
// response is read back from the ledger.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(categoryErrors.notFound).Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, log.OpUpdate, err, categoryErrors)
		return
	}
	in, err := categoryInput(parser)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err, categoryErrors)
		return
	}

	if err := s.ledger.UpdateCategory(r.Context(), id, in); err != nil {
		s.fail(w, r, log.OpUpdate, err, categoryErrors)
		return
	}

	resp := categoryResponse{ID: id, Name: in.Name, Color: in.Color}
	if cat, err := s.ledger.GetCategory(r.Context(), id); err == nil {
		resp.Name, resp.Color = cat.Name, cat.Color
	}
	NewJSONResponse().Payload(resp).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(categoryErrors.notFound).Write(w)
		return
	}
	if err := s.ledger.DeleteCategory(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err, categoryErrors)
		return
	}
	NewJSONResponse().Message("Category deleted successfully").Write(w)
}
