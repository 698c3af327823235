package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "hercule/internal/api/context"
)

func param(r *http.Request, name string) string {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
