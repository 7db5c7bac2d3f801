package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

func DecodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func GetToken(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", fmt.Errorf("missing token")
	}
	return token, nil
}

// QueryInt lit un paramètre de query entier avec valeur par défaut
func QueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

// ParsePagination lit page/limit depuis la query (limit plafonné à 100)
func ParsePagination(r *http.Request) (page, limit int) {
	page = QueryInt(r, "page", 1)
	limit = QueryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
