package model

import (
	"strconv"
	"strings"

	"bookstore-migrator/internal/shared/utils"
)

// DefaultAuthorType is used when neither the flag nor ACF carry one.
const DefaultAuthorType = "wordpress"

// socialPlatforms giữ thứ tự cố định cho ACF social fields
var socialPlatforms = []struct {
	key   string
	value func(AutorACF) ACFString
}{
	{"facebook", func(a AutorACF) ACFString { return a.Facebook }},
	{"instagram", func(a AutorACF) ACFString { return a.Instagram }},
	{"twitter", func(a AutorACF) ACFString { return a.Twitter }},
	{"linkedin", func(a AutorACF) ACFString { return a.LinkedIn }},
	{"youtube", func(a AutorACF) ACFString { return a.YouTube }},
	{"tiktok", func(a AutorACF) ACFString { return a.TikTok }},
	{"website", func(a AutorACF) ACFString { return a.Website }},
}

// ========================================
// WP USER → PROFILE
// ========================================

// NormalizeEmail lower-cases and trims.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserDisplayName: name → first + last → slug → phần trước @ của email
func UserDisplayName(u WPUser) string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	local := NormalizeEmail(u.Email)
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	return utils.FirstNonEmpty(utils.DecodeEntities(u.Name), full, u.Slug, local)
}

// ResolveAvatarURL picks the avatar with the largest numeric size key.
func ResolveAvatarURL(avatars map[string]string) string {
	best, bestSize := "", -1
	for key, u := range avatars {
		size, err := strconv.Atoi(key)
		if err != nil || strings.TrimSpace(u) == "" {
			continue
		}
		if size > bestSize {
			best, bestSize = strings.TrimSpace(u), size
		}
	}
	return best
}

// UserSocialLinks chỉ lấy từ field url của WP user
func UserSocialLinks(u WPUser) map[string]string {
	website := strings.TrimSpace(u.URL)
	if website == "" {
		return nil
	}
	return map[string]string{"website": website}
}

// BuildProfile maps a WordPress user to a profile row. Status is left
// to the caller.
func BuildProfile(id string, u WPUser, authorType string) Profile {
	if authorType == "" {
		authorType = DefaultAuthorType
	}
	return Profile{
		ID:          id,
		Role:        RoleAuthor,
		Email:       NormalizeEmail(u.Email),
		Name:        UserDisplayName(u),
		Bio:         utils.StringPtr(utils.StripHTML(u.Description)),
		PhotoURL:    utils.StringPtr(ResolveAvatarURL(u.AvatarURLs)),
		SocialLinks: UserSocialLinks(u),
		AuthorType:  utils.StringPtr(authorType),
	}
}

// ========================================
// WP AUTOR (CPT) → AUTHOR
// ========================================

func AutorName(p WPAutor) string {
	full := strings.TrimSpace(p.ACF.FirstName.String() + " " + p.ACF.LastName.String())
	return utils.FirstNonEmpty(
		utils.DecodeEntities(p.ACF.FullName.String()),
		full,
		utils.DecodeEntities(p.Title.Rendered),
		p.Slug,
	)
}

// AutorBio ưu tiên excerpt, fallback content
func AutorBio(p WPAutor) string {
	if bio := utils.StripHTML(p.Excerpt.Rendered); bio != "" {
		return bio
	}
	return utils.StripHTML(p.Content.Rendered)
}

// ResolveAutorPhoto: ACF photo → featured media source_url → large → full
func ResolveAutorPhoto(p WPAutor) string {
	if u := p.ACF.Photo.BestURL(); u != "" {
		return u
	}
	for _, media := range p.Embedded.FeaturedMedia {
		if u := strings.TrimSpace(media.SourceURL); u != "" {
			return u
		}
		sizes := media.MediaDetails.Sizes
		for _, name := range []string{"large", "full"} {
			if u := strings.TrimSpace(sizes[name].SourceURL); u != "" {
				return u
			}
		}
	}
	return ""
}

// AutorSocialLinks returns only platforms with a non-empty URL, or nil.
func AutorSocialLinks(acf AutorACF) map[string]string {
	var links map[string]string
	for _, p := range socialPlatforms {
		u := p.value(acf).String()
		if u == "" {
			continue
		}
		if links == nil {
			links = make(map[string]string, len(socialPlatforms))
		}
		links[p.key] = u
	}
	return links
}

// NormalizeWorks drops entries with neither title nor cover.
func NormalizeWorks(works []ACFWork) []PublishedWork {
	out := make([]PublishedWork, 0, len(works))
	for _, w := range works {
		title := utils.DecodeEntities(w.Title.String())
		cover := w.Cover.BestURL()
		if title == "" && cover == "" {
			continue
		}
		out = append(out, PublishedWork{
			CoverURL:  utils.StringPtr(cover),
			CoverPath: nil,
			Title:     utils.StringPtr(title),
			Genre:     utils.StringPtr(w.Genre.String()),
			Synopsis:  utils.StringPtr(utils.StripHTML(w.Synopsis.String())),
			Link:      utils.StringPtr(w.Link.String()),
		})
	}
	return out
}

func NormalizeGallery(images []ACFImage) []GalleryItem {
	out := make([]GalleryItem, 0, len(images))
	for _, img := range images {
		u := img.BestURL()
		if u == "" {
			continue
		}
		out = append(out, GalleryItem{
			URL:     u,
			Caption: utils.StringPtr(utils.DecodeEntities(img.Caption)),
		})
	}
	return out
}

// BuildAuthor maps an "autores" post to an authors row.
func BuildAuthor(p WPAutor, defaultAuthorType string) Author {
	a := Author{
		WPID:           p.ID,
		WPSlug:         p.Slug,
		Name:           AutorName(p),
		Bio:            utils.StringPtr(AutorBio(p)),
		PhotoURL:       utils.StringPtr(ResolveAutorPhoto(p)),
		Phone:          utils.StringPtr(p.ACF.Phone.String()),
		ResidenceCity:  utils.StringPtr(utils.DecodeEntities(p.ACF.ResidenceCity.String())),
		Province:       utils.StringPtr(utils.DecodeEntities(p.ACF.Province.String())),
		PublishedWorks: NormalizeWorks(p.ACF.PublishedWorks),
		AuthorGallery:  NormalizeGallery(p.ACF.Gallery),
		FeaturedVideo:  utils.StringPtr(p.ACF.FeaturedVideo.String()),
		AuthorType:     utils.StringPtr(utils.FirstNonEmpty(p.ACF.AuthorType.String(), defaultAuthorType, DefaultAuthorType)),
		SocialLinks:    AutorSocialLinks(p.ACF),
	}
	if d, ok := utils.NormalizeBirthDate(p.ACF.BirthDate.String()); ok {
		a.BirthDate = &d
	}
	return a
}
