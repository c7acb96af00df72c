package calendar

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"podtrack/internal/db"
	"podtrack/internal/models"
)

// FindPodcastByNameOrAlias resolves text to a podcast by, in order: exact name
// match, case-insensitive name match, exact alias match, case-insensitive
// alias match. Returns nil when nothing matches or the input is blank.
func FindPodcastByNameOrAlias(name string) (*models.Podcast, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	podcast, err := db.GetPodcastByExactName(name)
	if err == nil {
		return &podcast, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	podcast, err = db.GetPodcastByNameInsensitive(name)
	if err == nil {
		return &podcast, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	alias, err := db.GetAliasByExactValue(name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if errors.Is(err, sql.ErrNoRows) {
		alias, err = db.GetAliasByValueInsensitive(name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	podcast, err = db.GetPodcastByID(alias.PodcastID)
	if err != nil {
		return nil, err
	}
	return &podcast, nil
}

// FindPodcastFromEventTitle resolves a calendar event title to a podcast.
// It first tries a direct name/alias match on the full trimmed title, then
// scans all podcast names and aliases for a case-insensitive substring
// occurrence inside the title. The longest matching string wins, so a short
// common name ("The") never shadows a longer specific one ("The Show").
// Ties go to the first candidate encountered.
func FindPodcastFromEventTitle(title string) (*models.Podcast, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	podcast, err := FindPodcastByNameOrAlias(title)
	if err != nil || podcast != nil {
		return podcast, err
	}

	titleLower := strings.ToLower(title)
	bestID := ""
	bestLen := 0

	podcasts, err := db.GetAllPodcasts()
	if err != nil {
		return nil, err
	}
	for _, p := range podcasts {
		name := strings.TrimSpace(p.Name)
		// Length in runes, not bytes: multi-byte names must not outweigh
		// longer ASCII ones.
		if name != "" && strings.Contains(titleLower, strings.ToLower(name)) && utf8.RuneCountInString(name) > bestLen {
			bestID = p.ID
			bestLen = utf8.RuneCountInString(name)
		}
	}

	aliases, err := db.GetAllAliases()
	if err != nil {
		return nil, err
	}
	for _, a := range aliases {
		alias := strings.TrimSpace(a.Alias)
		if alias != "" && strings.Contains(titleLower, strings.ToLower(alias)) && utf8.RuneCountInString(alias) > bestLen {
			bestID = a.PodcastID
			bestLen = utf8.RuneCountInString(alias)
		}
	}

	if bestID == "" {
		return nil, nil
	}
	found, err := db.GetPodcastByID(bestID)
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// FindOrCreatePodcast resolves text by name or alias, creating a new podcast
// with that name when nothing matches. This creation path serves direct,
// manual lookups only; the calendar ingestion path never creates podcasts,
// so unrecognized event titles cannot spawn noise records.
func FindOrCreatePodcast(name string) (*models.Podcast, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	podcast, err := FindPodcastByNameOrAlias(name)
	if err != nil || podcast != nil {
		return podcast, err
	}

	log.Printf("Creating new podcast: %s", name)
	return db.CreatePodcast(name, nil, nil, nil)
}
