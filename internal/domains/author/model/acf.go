package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ========================================
// ACF FIELD TYPES
// ========================================
// ACF trả về shape không cố định: field rỗng là false, group rỗng là [],
// image có thể là ID, URL hoặc object. Các type dưới đây normalize một lần
// lúc decode để phần còn lại chỉ làm việc với struct rõ ràng.

// ACFString accepts a string or number; false, null, arrays and objects
// decode to "".
type ACFString string

func (s *ACFString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*s = ""
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = ACFString(strings.TrimSpace(v))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = ACFString(b)
	}
	return nil
}

func (s ACFString) String() string { return string(s) }

// ACFImage accepts an attachment ID, a URL string or an image object.
type ACFImage struct {
	ID      int64
	URL     string
	Caption string
	Sizes   map[string]string
}

type acfImageObject struct {
	ID      int64                      `json:"id"`
	URL     string                     `json:"url"`
	Caption ACFString                  `json:"caption"`
	Sizes   map[string]json.RawMessage `json:"sizes"`
}

func (i *ACFImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*i = ACFImage{}
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			i.ID = id
		} else {
			i.URL = v
		}
	case '{':
		var obj acfImageObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		i.ID = obj.ID
		i.URL = strings.TrimSpace(obj.URL)
		i.Caption = obj.Caption.String()
		// sizes chứa cả "large-width": 1024 → chỉ giữ value dạng string
		for name, raw := range obj.Sizes {
			var u string
			if json.Unmarshal(raw, &u) == nil && u != "" {
				if i.Sizes == nil {
					i.Sizes = make(map[string]string)
				}
				i.Sizes[name] = u
			}
		}
	default:
		if id, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			i.ID = id
		}
	}
	return nil
}

// BestURL prefers the original URL, then large, then full size.
func (i ACFImage) BestURL() string {
	if i.URL != "" {
		return i.URL
	}
	for _, size := range []string{"large", "full", "medium_large", "medium"} {
		if u := i.Sizes[size]; u != "" {
			return u
		}
	}
	return ""
}

// ACFList is a repeater/gallery: anything that is not an array decodes empty.
type ACFList[T any] []T

func (l *ACFList[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = nil
	if len(b) == 0 || b[0] != '[' {
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// ACFWork là một item trong repeater "published_works"
type ACFWork struct {
	Title    ACFString `json:"title"`
	Genre    ACFString `json:"genre"`
	Synopsis ACFString `json:"synopsis"`
	Link     ACFString `json:"link"`
	Cover    ACFImage  `json:"cover"`
}

// AutorACF is the custom field bundle of an "autores" post.
type AutorACF struct {
	FullName      ACFString `json:"full_name"`
	FirstName     ACFString `json:"first_name"`
	LastName      ACFString `json:"last_name"`
	Phone         ACFString `json:"phone"`
	Email         ACFString `json:"email"`
	BirthDate     ACFString `json:"birth_date"`
	ResidenceCity ACFString `json:"residence_city"`
	Province      ACFString `json:"province"`
	Photo         ACFImage  `json:"photo"`
	FeaturedVideo ACFString `json:"featured_video"`
	AuthorType    ACFString `json:"author_type"`

	Facebook  ACFString `json:"facebook"`
	Instagram ACFString `json:"instagram"`
	Twitter   ACFString `json:"twitter"`
	LinkedIn  ACFString `json:"linkedin"`
	YouTube   ACFString `json:"youtube"`
	TikTok    ACFString `json:"tiktok"`
	Website   ACFString `json:"website"`

	PublishedWorks ACFList[ACFWork]  `json:"published_works"`
	Gallery        ACFList[ACFImage] `json:"gallery"`
}

// UnmarshalJSON: WordPress trả "acf": [] khi post chưa có field nào
func (a *AutorACF) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = AutorACF{}
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	type plain AutorACF
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = AutorACF(v)
	return nil
}
