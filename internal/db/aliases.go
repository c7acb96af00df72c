package db

import (
	"log"

	"github.com/google/uuid"
	"podtrack/internal/models"
)

func GetAliasByExactValue(alias string) (models.PodcastAlias, error) {
	row := models.PodcastAlias{}
	err := DB.Get(&row, "SELECT * FROM podcast_aliases WHERE alias = $1 LIMIT 1", alias)
	return row, err
}

func GetAliasByValueInsensitive(alias string) (models.PodcastAlias, error) {
	row := models.PodcastAlias{}
	err := DB.Get(&row, "SELECT * FROM podcast_aliases WHERE LOWER(alias) = LOWER($1) LIMIT 1", alias)
	return row, err
}

func GetAllAliases() ([]models.PodcastAlias, error) {
	var aliases []models.PodcastAlias
	err := DB.Select(&aliases, "SELECT * FROM podcast_aliases ORDER BY alias ASC")
	return aliases, err
}

func GetAliasesByPodcastID(podcastID string) ([]models.PodcastAlias, error) {
	var aliases []models.PodcastAlias
	err := DB.Select(&aliases, "SELECT * FROM podcast_aliases WHERE podcast_id = $1 ORDER BY alias ASC", podcastID)
	return aliases, err
}

func CreateAlias(podcastID, alias string) (*models.PodcastAlias, error) {
	query := `
		INSERT INTO podcast_aliases (id, podcast_id, alias)
		VALUES ($1, $2, $3)
		RETURNING *
	`
	row := &models.PodcastAlias{}
	err := DB.Get(row, query, uuid.NewString(), podcastID, alias)
	if err != nil {
		log.Printf("Error creating alias %q for podcast %s: %v", alias, podcastID, err)
		return nil, err
	}
	return row, nil
}

func DeleteAlias(id string) error {
	_, err := DB.Exec("DELETE FROM podcast_aliases WHERE id = $1", id)
	return err
}
