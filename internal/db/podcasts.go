package db

import (
	"log"

	"github.com/google/uuid"
	"podtrack/internal/models"
)

func GetPodcastByID(id string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1", id)
	return podcast, err
}

func GetAllPodcasts() ([]models.Podcast, error) {
	var podcasts []models.Podcast
	err := DB.Select(&podcasts, "SELECT * FROM podcasts ORDER BY name ASC")
	return podcasts, err
}

func GetPodcastByExactName(name string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE name = $1 LIMIT 1", name)
	return podcast, err
}

func GetPodcastByNameInsensitive(name string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE LOWER(name) = LOWER($1) LIMIT 1", name)
	return podcast, err
}

func CreatePodcast(name string, host, defaultStudioSettings, tasksTimeAllowanceDays *string) (*models.Podcast, error) {
	query := `
		INSERT INTO podcasts (id, name, host, default_studio_settings, tasks_time_allowance_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`
	podcast := &models.Podcast{}
	err := DB.Get(podcast, query, uuid.NewString(), name, host, defaultStudioSettings, tasksTimeAllowanceDays)
	if err != nil {
		log.Printf("Error creating podcast %q: %v", name, err)
		return nil, err
	}
	return podcast, nil
}

func UpdatePodcast(p *models.Podcast) error {
	query := `
		UPDATE podcasts
		SET name = $1, host = $2, default_studio_settings = $3, tasks_time_allowance_days = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := DB.Exec(query, p.Name, p.Host, p.DefaultStudioSettings, p.TasksTimeAllowanceDays, p.ID)
	return err
}

// DeletePodcast removes the podcast; aliases, episodes and their tasks go with it.
func DeletePodcast(id string) error {
	_, err := DB.Exec("DELETE FROM podcasts WHERE id = $1", id)
	return err
}
