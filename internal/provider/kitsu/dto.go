package kitsu

// episodesResponse is the JSON:API payload of /anime/{id}/episodes.
type episodesResponse struct {
	Data []episodeResource `json:"data"`
	Meta metaDTO           `json:"meta"`
}

type metaDTO struct {
	Count int `json:"count"`
}

type episodeResource struct {
	ID         string            `json:"id"`
	Attributes episodeAttributes `json:"attributes"`
}

type episodeAttributes struct {
	SeasonNumber int `json:"seasonNumber"`
	Number       int `json:"number"`
}

// categoriesResponse is the payload of /anime/{id}/categories.
type categoriesResponse struct {
	Data []categoryResource `json:"data"`
}

type categoryResource struct {
	Attributes categoryAttributes `json:"attributes"`
}

type categoryAttributes struct {
	Title string `json:"title"`
}

// animeResponse is the payload of /anime/{id}.
type animeResponse struct {
	Data animeResource `json:"data"`
}

type animeResource struct {
	ID         string          `json:"id"`
	Attributes animeAttributes `json:"attributes"`
}

type animeAttributes struct {
	CanonicalTitle string `json:"canonicalTitle"`
	Synopsis       string `json:"synopsis"`
	EpisodeCount   int    `json:"episodeCount"`
	PosterImage    struct {
		Small string `json:"small"`
	} `json:"posterImage"`
}

// relationshipsResponse is the payload of /anime/{id}/media-relationships
// with the destination resources sideloaded under "included".
type relationshipsResponse struct {
	Data     []relationshipResource `json:"data"`
	Included []includedResource     `json:"included"`
}

type relationshipResource struct {
	Attributes struct {
		Role string `json:"role"` // sequel, prequel, side_story, ...
	} `json:"attributes"`
	Relationships struct {
		Destination struct {
			Data resourceRef `json:"data"`
		} `json:"destination"`
	} `json:"relationships"`
}

type resourceRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type includedResource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes animeAttributes `json:"attributes"`
}
