package utils

import (
	"encoding/json"
	"net/http"

	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// Alerts builds the notification headers the web client shows as toasts.
type Alerts struct {
	AppName string
}

func (a Alerts) header(suffix string) string {
	return "X-" + a.AppName + "-" + suffix
}

// Created sets the creation alert for entity id.
func (a Alerts) Created(w http.ResponseWriter, entity, id string) {
	a.set(w, a.AppName+"."+entity+".created", id)
}

// Updated sets the update alert for entity id.
func (a Alerts) Updated(w http.ResponseWriter, entity, id string) {
	a.set(w, a.AppName+"."+entity+".updated", id)
}

// Deleted sets the deletion alert for entity id.
func (a Alerts) Deleted(w http.ResponseWriter, entity, id string) {
	a.set(w, a.AppName+"."+entity+".deleted", id)
}

// BadRequest sets the error alert used for rejected writes, e.g. "idexists".
func (a Alerts) BadRequest(w http.ResponseWriter, entity, key string) {
	w.Header().Set(a.header("error"), "error."+key)
	w.Header().Set(a.header("params"), entity)
}

func (a Alerts) set(w http.ResponseWriter, key, param string) {
	w.Header().Set(a.header("alert"), key)
	w.Header().Set(a.header("params"), param)
}
