// Package middleware - HTTP middleware dev-сервера
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody - формат ошибок бэкенда: клиент читает поле message
type errorBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message})
}

// Chain применяет middleware в порядке перечисления: первый - внешний
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
