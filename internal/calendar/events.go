package calendar

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"podtrack/internal/db"
	"podtrack/internal/models"
)

// timeNow is swapped out in tests for deterministic "today" boundaries.
var timeNow = time.Now

// EpisodeData is the episode-shaped view of one calendar event.
type EpisodeData struct {
	PodcastName    string
	PodcastID      string
	EpisodeNumber  string
	EpisodeNumbers []string
	RecordingDate  *time.Time
	Studio         string
	GuestNames     string
	Notes          string
}

// Guest names appear in event descriptions behind a handful of labels.
var guestLabelRes = []*regexp.Regexp{
	regexp.MustCompile(`אורח[ים]?[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)guest[s]?[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)with\s+([^\n]+)`),
}

// ExtractEpisodeData pulls episode fields from a calendar event. Values
// derived from the title, start time and location always win; the private
// extended-properties metadata only fills fields the text left empty.
func ExtractEpisodeData(event Event) EpisodeData {
	parsed := ParseEventTitle(event.Summary)
	data := EpisodeData{
		PodcastName:    parsed.PodcastName,
		EpisodeNumber:  parsed.EpisodeNumber,
		EpisodeNumbers: parsed.EpisodeNumbers,
		Studio:         event.Location,
		Notes:          event.Description,
	}

	if !event.Start.IsZero() {
		start := event.Start.UTC()
		data.RecordingDate = &start
	}

	for _, re := range guestLabelRes {
		if m := re.FindStringSubmatch(event.Description); m != nil {
			data.GuestNames = strings.TrimSpace(m[1])
			break
		}
	}

	if v := event.Private["podcast_id"]; v != "" {
		data.PodcastID = v
	}
	if v := event.Private["episode_number"]; v != "" && data.EpisodeNumber == "" {
		data.EpisodeNumber = v
	}
	if v := event.Private["studio"]; v != "" && data.Studio == "" {
		data.Studio = v
	}
	if v := event.Private["guest_names"]; v != "" && data.GuestNames == "" {
		data.GuestNames = v
	}
	return data
}

// CreateOrUpdateEpisodeFromEvent upserts one episode for the given event data.
// An existing episode is matched by (podcast, episode number, same calendar
// day of recording date). On update only empty studio/guest/notes fields are
// filled; the recording date is always refreshed.
func CreateOrUpdateEpisodeFromEvent(data EpisodeData, podcast *models.Podcast) (*models.Episode, error) {
	var existing *models.Episode
	if data.EpisodeNumber != "" && data.RecordingDate != nil {
		dayStart := data.RecordingDate.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.AddDate(0, 0, 1)
		found, err := db.FindEpisodeForCalendarDay(podcast.ID, data.EpisodeNumber, dayStart, dayEnd)
		if err == nil {
			existing = &found
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	if existing != nil {
		log.Printf("Updating episode %s from calendar event", existing.ID)
		if data.RecordingDate != nil {
			existing.RecordingDate = data.RecordingDate
		}
		if data.Studio != "" && isBlank(existing.Studio) {
			existing.Studio = &data.Studio
		}
		if data.GuestNames != "" && isBlank(existing.GuestNames) {
			existing.GuestNames = &data.GuestNames
		}
		if data.Notes != "" && isBlank(existing.EpisodeNotes) {
			existing.EpisodeNotes = &data.Notes
		}
		if err := db.UpdateEpisode(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	log.Printf("Creating new episode for podcast %s", podcast.Name)
	episode := &models.Episode{
		PodcastID:     podcast.ID,
		RecordingDate: data.RecordingDate,
		Status:        models.EpisodeNotStarted,
	}
	if data.EpisodeNumber != "" {
		episode.EpisodeNumber = &data.EpisodeNumber
	}
	if data.Studio != "" {
		episode.Studio = &data.Studio
	}
	if data.GuestNames != "" {
		episode.GuestNames = &data.GuestNames
	}
	if data.Notes != "" {
		episode.EpisodeNotes = &data.Notes
	}
	return db.CreateEpisode(episode)
}

// upsertEventEpisodes processes one event into zero or more episodes: one per
// distinct parsed episode number, or a single no-number pass. Events whose
// title resolves to no known podcast are skipped entirely; the ingestion path
// never creates podcasts.
func upsertEventEpisodes(event Event) ([]models.Episode, error) {
	title := strings.TrimSpace(event.Summary)
	if title == "" {
		log.Println("Skipping calendar event with no title")
		return nil, nil
	}

	podcast, err := FindPodcastFromEventTitle(title)
	if err != nil {
		return nil, err
	}
	if podcast == nil {
		log.Printf("Skipping event %q - no recognized podcast name or alias in title", title)
		return nil, nil
	}

	data := ExtractEpisodeData(event)
	numbers := data.EpisodeNumbers
	if len(numbers) == 0 {
		if data.EpisodeNumber != "" {
			numbers = []string{data.EpisodeNumber}
		} else {
			numbers = []string{""}
		}
	}

	var episodes []models.Episode
	for _, num := range numbers {
		perEpisode := data
		perEpisode.EpisodeNumber = num
		episode, err := CreateOrUpdateEpisodeFromEvent(perEpisode, podcast)
		if err != nil {
			log.Printf("Error upserting episode %q for event %s: %v", num, event.ID, err)
			continue
		}
		episodes = append(episodes, *episode)
	}
	return episodes, nil
}

// GetTodaysEpisodes returns the episodes recording today (UTC). With a live
// event source the calendar is ingested first; on a nil source or any fetch
// error it degrades to the episodes already on file.
func GetTodaysEpisodes(ctx context.Context, src EventSource) ([]models.Episode, error) {
	dayStart := timeNow().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if src == nil {
		return db.GetEpisodesRecordingBetween(dayStart, dayEnd)
	}

	events, err := src.ListEvents(ctx, dayStart, dayEnd)
	if err != nil {
		log.Printf("Calendar fetch failed, falling back to database: %v", err)
		return db.GetEpisodesRecordingBetween(dayStart, dayEnd)
	}

	var episodes []models.Episode
	for _, event := range events {
		eventEpisodes, err := upsertEventEpisodes(event)
		if err != nil {
			log.Printf("Error processing calendar event %s: %v", event.ID, err)
			continue
		}
		episodes = append(episodes, eventEpisodes...)
	}
	log.Printf("Processed %d episodes from calendar", len(episodes))
	return episodes, nil
}

// SyncCalendarToDatabase ingests upcoming calendar events into episodes.
// Returns the number of episodes created or updated. A disabled source or a
// fetch failure reports zero synced rather than surfacing an error, so a
// scheduled trigger never crashes on calendar trouble.
func SyncCalendarToDatabase(ctx context.Context, src EventSource, daysAhead int) (int, error) {
	if src == nil {
		log.Println("Calendar sync disabled")
		return 0, nil
	}

	start := timeNow().UTC()
	end := start.AddDate(0, 0, daysAhead)

	log.Printf("Syncing calendar events from %s to %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	events, err := src.ListEvents(ctx, start, end)
	if err != nil {
		log.Printf("Calendar fetch failed during sync: %v", err)
		return 0, nil
	}

	synced := 0
	for _, event := range events {
		eventEpisodes, err := upsertEventEpisodes(event)
		if err != nil {
			log.Printf("Error syncing calendar event %s: %v", event.ID, err)
			continue
		}
		synced += len(eventEpisodes)
	}
	log.Printf("Synced %d episodes from calendar", synced)
	return synced, nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
