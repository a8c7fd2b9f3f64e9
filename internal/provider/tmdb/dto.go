package tmdb

// showResponse is the TMDB /tv/{id} payload (season fields only).
type showResponse struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Seasons []seasonDTO `json:"seasons"`
}

type seasonDTO struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
}

// detailsResponse is the TMDB detail payload with appended recommendations.
type detailsResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Title           string  `json:"title"` // movies use "title" instead of "name"
	Overview        string  `json:"overview"`
	PosterPath      string  `json:"poster_path"`
	Recommendations listDTO `json:"recommendations"`
}

type listDTO struct {
	Results []entryDTO `json:"results"`
}

type entryDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	MediaType  string `json:"media_type"`
}
