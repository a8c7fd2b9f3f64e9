package jikan

// episodesResponse is the payload of /anime/{id}/episodes.
type episodesResponse struct {
	Data       []episodeDTO  `json:"data"`
	Pagination paginationDTO `json:"pagination"`
}

type episodeDTO struct {
	MalID int `json:"mal_id"`
}

type paginationDTO struct {
	Items struct {
		Total int `json:"total"`
	} `json:"items"`
}

// animeResponse is the payload of /anime/{id}.
type animeResponse struct {
	Data animeDTO `json:"data"`
}

type animeDTO struct {
	MalID    int64  `json:"mal_id"`
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Episodes int    `json:"episodes"`
	Images   struct {
		JPG struct {
			ImageURL string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// relationsResponse is the payload of /anime/{id}/relations.
type relationsResponse struct {
	Data []relationDTO `json:"data"`
}

type relationDTO struct {
	Relation string     `json:"relation"` // Sequel, Prequel, Side story, ...
	Entry    []entryDTO `json:"entry"`
}

type entryDTO struct {
	MalID int64  `json:"mal_id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}
