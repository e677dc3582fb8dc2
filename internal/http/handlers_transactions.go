package http

import (
	"net/http"

	"urmoney/internal/core"
	"urmoney/internal/log"
)

// transactionResponse echoes a written transaction back to the client.
type transactionResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Type        core.TransactionType `json:"type"`
	CategoryID  *int64               `json:"category_id"`
	Date        core.Date            `json:"date"`
}

func newTransactionResponse(id int64, in core.TransactionInput) transactionResponse {
	return transactionResponse{
		ID:          id,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err, transactionErrors)
		return
	}
	if txs == nil {
		txs = []core.EnrichedTransaction{}
	}
	NewJSONResponse().Payload(txs).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(transactionErrors.notFound).Write(w)
		return
	}
	tx, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		s.fail(w, r, log.OpRead, err, transactionErrors)
		return
	}
	NewJSONResponse().Payload(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, log.OpCreate, err, transactionErrors)
		return
	}
	in, err := transactionInput(parser)
	if err != nil {
		s.fail(w, r, log.OpCreate, err, transactionErrors)
		return
	}

	id, err := s.ledger.CreateTransaction(r.Context(), in)
	if err != nil {
		s.fail(w, r, log.OpCreate, err, transactionErrors)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Payload(newTransactionResponse(id, in)).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(transactionErrors.notFound).Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, log.OpUpdate, err, transactionErrors)
		return
	}
	in, err := transactionInput(parser)
	if err != nil {
		s.fail(w, r, log.OpUpdate, err, transactionErrors)
		return
	}

	if err := s.ledger.UpdateTransaction(r.Context(), id, in); err != nil {
		s.fail(w, r, log.OpUpdate, err, transactionErrors)
		return
	}

	NewJSONResponse().Payload(newTransactionResponse(id, in)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError(transactionErrors.notFound).Write(w)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err, transactionErrors)
		return
	}
	NewJSONResponse().Message("Transaction deleted successfully").Write(w)
}
