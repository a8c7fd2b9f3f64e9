package domain

// SliderItem is a lightweight content reference carried by a slider.
type SliderItem struct {
	ContentID string `json:"contentId"`
	Title     string `json:"title"`
	Poster    string `json:"poster,omitempty"`
	AddedDate int64  `json:"addedDate"`
}

// Slider is one free-form ordered list in the layout feature.
type Slider struct {
	ID        string       `json:"id"`
	Page      string       `json:"page"`
	Title     string       `json:"title"`
	Type      string       `json:"type"`
	Order     int          `json:"order"`
	Visible   bool         `json:"visible"`
	CreatedAt int64        `json:"createdAt"`
	Items     []SliderItem `json:"items"`
}

// Clone returns a deep copy of the slider.
func (s *Slider) Clone() *Slider {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]SliderItem(nil), s.Items...)
	return &c
}

// LayoutPage holds the sliders of one named layout page.
type LayoutPage struct {
	Sliders []*Slider `json:"sliders"`
}

// LayoutSettings holds user preferences persisted alongside the layout.
type LayoutSettings struct {
	Theme         string `json:"theme,omitempty"`
	Compact       bool   `json:"compact,omitempty"`
	ShowProgress  bool   `json:"showProgress"`
	DefaultPage   string `json:"defaultPage,omitempty"`
	PosterQuality string `json:"posterQuality,omitempty"`
}

// LayoutDocument is the persisted layout state, stored under its own key.
type LayoutDocument struct {
	Version  int                    `json:"version"`
	Pages    map[string]*LayoutPage `json:"pages"`
	Settings LayoutSettings         `json:"settings"`
}

// DefaultLayoutDocument returns the bundled layout used when storage is
// empty or unreadable.
func DefaultLayoutDocument() *LayoutDocument {
	return &LayoutDocument{
		Version: SchemaVersion,
		Pages:   make(map[string]*LayoutPage),
		Settings: LayoutSettings{
			ShowProgress: true,
		},
	}
}
