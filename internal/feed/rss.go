package feed

import (
	"fmt"
	"net/http"
	"os"

	"github.com/eduncan911/podcast"

	"podtrack/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders the published episodes of a show as an RSS feed.
func GenerateRSS(show *models.Podcast, episodes []models.Episode, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	description := fmt.Sprintf("Published episodes of %s.", show.Name)
	p := podcast.New(
		show.Name,
		fmt.Sprintf("%s/api/podcasts/%s/feed.rss", baseURL, show.ID),
		description,
		&show.CreatedAt, &show.UpdatedAt,
	)
	if show.Host != nil {
		p.AddAuthor(*show.Host, "")
	}

	for _, episode := range episodes {
		title := show.Name
		if episode.EpisodeNumber != nil {
			title = fmt.Sprintf("%s - Episode %s", show.Name, *episode.EpisodeNumber)
		}
		itemDescription := title
		if episode.GuestNames != nil && *episode.GuestNames != "" {
			itemDescription = fmt.Sprintf("%s, with %s", title, *episode.GuestNames)
		}

		item := podcast.Item{
			Title:       title,
			Description: itemDescription,
			Link:        fmt.Sprintf("%s/api/episodes/%s", baseURL, episode.ID),
		}
		if episode.RecordingDate != nil {
			item.PubDate = episode.RecordingDate
		} else {
			created := episode.CreatedAt
			item.PubDate = &created
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
