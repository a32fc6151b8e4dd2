package model

// Author là row của bảng authors, upsert theo wp_id
type Author struct {
	WPID           int64             `json:"wp_id"`
	WPSlug         string            `json:"wp_slug"`
	Name           string            `json:"name"`
	Bio            *string           `json:"bio"`
	PhotoURL       *string           `json:"photo_url"`
	Phone          *string           `json:"phone"`
	BirthDate      *string           `json:"birth_date"`
	ResidenceCity  *string           `json:"residence_city"`
	Province       *string           `json:"province"`
	PublishedWorks []PublishedWork   `json:"published_works"`
	AuthorGallery  []GalleryItem     `json:"author_gallery"`
	FeaturedVideo  *string           `json:"featured_video"`
	AuthorType     *string           `json:"author_type"`
	SocialLinks    map[string]string `json:"social_links"`
}

type PublishedWork struct {
	CoverURL  *string `json:"cover_url"`
	CoverPath *string `json:"cover_path"`
	Title     *string `json:"title"`
	Genre     *string `json:"genre"`
	Synopsis  *string `json:"synopsis"`
	Link      *string `json:"link"`
}

type GalleryItem struct {
	URL     string  `json:"url"`
	Path    *string `json:"path"`
	Caption *string `json:"caption,omitempty"`
}

// PhotoRow is a destination row whose photo may still point at WordPress.
type PhotoRow struct {
	ID       string
	PhotoURL string
}
