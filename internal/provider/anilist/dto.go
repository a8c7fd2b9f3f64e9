package anilist

import "encoding/json"

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type titleDTO struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

func (t titleDTO) Display() string {
	if t.English != "" {
		return t.English
	}
	return t.Romaji
}

type mediaDTO struct {
	Title       titleDTO     `json:"title"`
	Description string       `json:"description"`
	Relations   relationsDTO `json:"relations"`
}

type relationsDTO struct {
	Edges []relationEdge `json:"edges"`
}

type relationEdge struct {
	RelationType string  `json:"relationType"`
	Node         nodeDTO `json:"node"`
}

type nodeDTO struct {
	ID         int64    `json:"id"`
	Type       string   `json:"type"`
	Title      titleDTO `json:"title"`
	CoverImage struct {
		Medium string `json:"medium"`
	} `json:"coverImage"`
}
