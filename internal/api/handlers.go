package api

import (
	"encoding/json"
	"log"
	"net/http"
)

type hubView interface {
	RoomNames() []string
	OnlineUsers() []string
}

type API struct {
	hub hubView
}

func New(hub hubView) *API {
	return &API{hub: hub}
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("palaver chat hub is running\n"))
}

func (a *API) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Rooms []string `json:"rooms"`
	}{Rooms: a.hub.RoomNames()})
}

func (a *API) UsersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Users []string `json:"users"`
	}{Users: a.hub.OnlineUsers()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
