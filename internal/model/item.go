package model

// Item is a piece of reservable equipment. Items are immutable once loaded.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ImageMime string `json:"image_mime,omitempty"`
}

// HasImage reports whether a photo is stored for the item.
func (i Item) HasImage() bool {
	return i.ImageMime != ""
}
