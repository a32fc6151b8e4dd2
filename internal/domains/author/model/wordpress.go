package model

// WPUser là user trả về từ /wp/v2/users?context=edit
type WPUser struct {
	ID          int64             `json:"id"`
	Username    string            `json:"username"`
	Name        string            `json:"name"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Email       string            `json:"email"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Slug        string            `json:"slug"`
	Roles       []string          `json:"roles"`
	AvatarURLs  map[string]string `json:"avatar_urls"`
}

type Rendered struct {
	Rendered string `json:"rendered"`
}

// WPMedia is an embedded attachment (wp:featuredmedia).
type WPMedia struct {
	ID           int64  `json:"id"`
	SourceURL    string `json:"source_url"`
	MediaDetails struct {
		Sizes map[string]struct {
			SourceURL string `json:"source_url"`
		} `json:"sizes"`
	} `json:"media_details"`
}

type WPEmbedded struct {
	FeaturedMedia []WPMedia `json:"wp:featuredmedia"`
}

// WPAutor là một post của custom post type "autores" (fetch với _embed)
type WPAutor struct {
	ID       int64      `json:"id"`
	Slug     string     `json:"slug"`
	Status   string     `json:"status"`
	Title    Rendered   `json:"title"`
	Excerpt  Rendered   `json:"excerpt"`
	Content  Rendered   `json:"content"`
	ACF      AutorACF   `json:"acf"`
	Embedded WPEmbedded `json:"_embedded"`
}
