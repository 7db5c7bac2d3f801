package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse est l'enveloppe uniforme de toutes les réponses de l'API
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Pagination décrit la page courante d'une liste
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// PaginatedData enveloppe une liste avec ses métadonnées de pagination
type PaginatedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination calcule les métadonnées de pagination
func NewPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	}
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Success répond 200 avec l'enveloppe standard
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessPaginated répond 200 avec une liste paginée
func SuccessPaginated(w http.ResponseWriter, items interface{}, p Pagination) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: PaginatedData{Items: items, Pagination: p}})
}

// Error répond avec l'enveloppe d'erreur; err est loggé mais jamais exposé tel quel
func Error(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		LogError("[%d] %s: %v", status, msg, err)
	} else {
		LogError("[%d] %s", status, msg)
	}
	JSON(w, status, APIResponse{Success: false, Error: msg})
}

// ErrorSimple répond avec l'enveloppe d'erreur sans erreur interne à logger
func ErrorSimple(w http.ResponseWriter, status int, msg string) {
	Error(w, status, msg, nil)
}

// ValidationError répond 400 avec le détail du champ en message
func ValidationError(w http.ResponseWriter, detail string) {
	JSON(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Error:   "Validation failed",
		Message: detail,
	})
}

// Message répond 200 avec un simple message
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}
