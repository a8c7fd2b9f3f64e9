package domain

// SchemaVersion is the version stamped on persisted documents.
const SchemaVersion = 1

// Default page ids. Statuses and contents reference pages by these ids;
// the references are soft and never validated on mutation.
const (
	PageIDFilm   = "film"
	PageIDSeries = "series"
	PageIDAnime  = "anime"
	PageIDHome   = "home"
)

// ContentDocument is the persisted tracker state, stored as one JSON
// document under a fixed key.
type ContentDocument struct {
	Version  int                           `json:"version"`
	Pages    map[string]*Page              `json:"pages"`
	Statuses map[string]map[string]*Status `json:"statuses"` // pageID -> statusID -> Status
	Contents map[string]*Content           `json:"contents"`
}

// DefaultContentDocument returns the bundled tracker state used when
// storage is empty or unreadable: the four standard pages, each with
// to-watch / watching / watched buckets.
func DefaultContentDocument() *ContentDocument {
	doc := &ContentDocument{
		Version:  SchemaVersion,
		Pages:    make(map[string]*Page),
		Statuses: make(map[string]map[string]*Status),
		Contents: make(map[string]*Content),
	}

	pages := []struct {
		id       string
		title    string
		category PageCategory
	}{
		{PageIDHome, "Home", PageHome},
		{PageIDFilm, "Films", PageFilm},
		{PageIDSeries, "Series", PageSeries},
		{PageIDAnime, "Anime", PageAnime},
	}

	for i, p := range pages {
		doc.Pages[p.id] = &Page{
			ID:       p.id,
			Title:    p.title,
			Order:    i,
			Visible:  true,
			Category: p.category,
		}
		if p.category == PageHome {
			continue
		}
		buckets := map[string]*Status{}
		for j, title := range []string{"To Watch", "Watching", "Watched"} {
			id := p.id + ":" + defaultStatusSlug(title)
			buckets[id] = &Status{
				ID:      id,
				PageID:  p.id,
				Title:   title,
				Order:   j,
				Visible: true,
				Type:    StatusDefault,
			}
		}
		doc.Statuses[p.id] = buckets
	}

	return doc
}

func defaultStatusSlug(title string) string {
	switch title {
	case "To Watch":
		return "to-watch"
	case "Watching":
		return "watching"
	case "Watched":
		return "watched"
	default:
		return title
	}
}
