package models

import "encoding/json"

// Post represents a content post on the site.
type Post struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Category string   `json:"category,omitempty"`
	Author   string   `json:"author"`
	Date     string   `json:"date,omitempty"`
	ReadTime string   `json:"readTime,omitempty"`
	Image    string   `json:"image,omitempty"`
	Featured bool     `json:"featured"`
	Tags     []string `json:"tags"`
	Type     string   `json:"type"` // news, event, blog

	// TagsJSON mirrors Tags as the JSON text stored in the tags_json column.
	TagsJSON string `json:"-"`
}

// IsValidPostType reports whether t is one of the allowed post types.
func IsValidPostType(t string) bool {
	switch t {
	case "news", "event", "blog":
		return true
	}
	return false
}

// PrepareForSave marshals the tag list into TagsJSON for storage.
func (p *Post) PrepareForSave() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	b, err := json.Marshal(p.Tags)
	if err != nil {
		p.TagsJSON = "[]"
		return
	}
	p.TagsJSON = string(b)
}

// PrepareForAPI unmarshals TagsJSON back into the tag list.
func (p *Post) PrepareForAPI() {
	p.Tags = []string{}
	if p.TagsJSON != "" {
		_ = json.Unmarshal([]byte(p.TagsJSON), &p.Tags)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// PostUpdate carries a partial patch for a post. Nil fields are left untouched.
type PostUpdate struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Category *string   `json:"category"`
	Author   *string   `json:"author"`
	Date     *string   `json:"date"`
	ReadTime *string   `json:"readTime"`
	Image    *string   `json:"image"`
	Featured *bool     `json:"featured"`
	Tags     *[]string `json:"tags"`
	Type     *string   `json:"type"`
}
