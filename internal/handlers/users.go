package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"podtrack/internal/db"
	"podtrack/internal/models"
)

type userPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := db.GetAllUsers()
	if err != nil {
		log.Printf("Error getting users: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := db.GetUserByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handlers) PostUser(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	user, err := db.CreateUser(strings.TrimSpace(*p.Name), p.Email, p.Role)
	if err != nil {
		if strings.Contains(err.Error(), "users_name_key") {
			http.Error(w, "User name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handlers) PutUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := db.GetUserByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var p userPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			http.Error(w, "Name cannot be blank", http.StatusBadRequest)
			return
		}
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		user.Email = p.Email
	}
	if p.Role != nil {
		user.Role = p.Role
	}

	if err := db.UpdateUser(&user); err != nil {
		log.Printf("Error updating user %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user. Episodes and tasks referencing the user keep
// existing with their engineer/assignee fields nulled out by the schema.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetUserByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err := db.DeleteUser(id); err != nil {
		log.Printf("Error deleting user %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *Handlers) GetEngineerEpisodes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetUserByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	episodes, err := db.GetEpisodesByEngineer(id)
	if err != nil {
		log.Printf("Error getting episodes for engineer %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, episodes)
}

func (h *Handlers) GetEngineerTasks(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := db.GetUserByID(id); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	tasks, err := db.ListTasks(id, models.TaskStatus(""), models.TaskType(""))
	if err != nil {
		log.Printf("Error getting tasks for engineer %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}
