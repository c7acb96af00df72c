package db

import (
	"log"

	"github.com/google/uuid"
	"podtrack/internal/models"
)

func GetUserByID(id string) (models.User, error) {
	user := models.User{}
	err := DB.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	return user, err
}

func GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users ORDER BY name ASC")
	return users, err
}

func CreateUser(name string, email, role *string) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`
	user := &models.User{}
	err := DB.Get(user, query, uuid.NewString(), name, email, role)
	if err != nil {
		log.Printf("Error creating user %q: %v", name, err)
		return nil, err
	}
	return user, nil
}

func UpdateUser(u *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, role = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := DB.Exec(query, u.Name, u.Email, u.Role, u.ID)
	return err
}

// DeleteUser removes the user. Episode engineer fields and task assignments
// referencing the user are nulled out by the schema, never cascaded.
func DeleteUser(id string) error {
	_, err := DB.Exec("DELETE FROM users WHERE id = $1", id)
	return err
}
