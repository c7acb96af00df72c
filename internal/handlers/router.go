package handlers

import "github.com/gorilla/mux"

// NewRouter wires all API routes.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/podcasts", h.GetPodcasts).Methods("GET")
	api.HandleFunc("/podcasts", h.PostPodcast).Methods("POST")
	api.HandleFunc("/podcasts/resolve", h.ResolvePodcast).Methods("POST")
	api.HandleFunc("/podcasts/{id}", h.GetPodcast).Methods("GET")
	api.HandleFunc("/podcasts/{id}", h.PutPodcast).Methods("PUT")
	api.HandleFunc("/podcasts/{id}", h.DeletePodcast).Methods("DELETE")
	api.HandleFunc("/podcasts/{id}/aliases", h.GetPodcastAliases).Methods("GET")
	api.HandleFunc("/podcasts/{id}/aliases", h.PostPodcastAlias).Methods("POST")
	api.HandleFunc("/podcasts/{id}/feed.rss", h.GetPodcastFeed).Methods("GET")
	api.HandleFunc("/aliases/{id}", h.DeletePodcastAlias).Methods("DELETE")

	api.HandleFunc("/episodes", h.GetEpisodes).Methods("GET")
	api.HandleFunc("/episodes", h.PostEpisode).Methods("POST")
	api.HandleFunc("/episodes/upcoming", h.GetUpcomingRecordings).Methods("GET")
	api.HandleFunc("/episodes/{id}", h.GetEpisode).Methods("GET")
	api.HandleFunc("/episodes/{id}", h.PutEpisode).Methods("PUT")
	api.HandleFunc("/episodes/{id}", h.DeleteEpisode).Methods("DELETE")

	api.HandleFunc("/tasks", h.GetTasks).Methods("GET")
	api.HandleFunc("/tasks", h.PostTask).Methods("POST")
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}", h.PutTask).Methods("PUT")
	api.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")

	api.HandleFunc("/users", h.GetUsers).Methods("GET")
	api.HandleFunc("/users", h.PostUser).Methods("POST")
	api.HandleFunc("/users/{id}", h.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", h.PutUser).Methods("PUT")
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")

	api.HandleFunc("/engineers/{id}/episodes", h.GetEngineerEpisodes).Methods("GET")
	api.HandleFunc("/engineers/{id}/tasks", h.GetEngineerTasks).Methods("GET")

	api.HandleFunc("/notifications", h.GetNotifications).Methods("GET")

	api.HandleFunc("/workflow/daily", h.TriggerDailyWorkflow).Methods("POST")
	api.HandleFunc("/workflow/sync-calendar", h.SyncCalendar).Methods("POST")

	return r
}
