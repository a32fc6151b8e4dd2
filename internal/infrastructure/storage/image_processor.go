package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"mime"
	"net/http"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypeGIF  = "image/gif"
	ContentTypeSVG  = "image/svg+xml"
)

// Image là bytes kèm content type và extension dùng cho object key
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

type ImageProcessor struct {
	MaxSize int64 // bytes
	Quality int   // JPEG quality
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 20 * 1024 * 1024, Quality: 82}
}

// Sniff xác định content type từ bytes, header và đuôi URL.
// SVG thường bị sniff thành text/xml nên check thêm header/extension.
func Sniff(data []byte, headerType, sourceURL string) Image {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(headerType, ";")[0]))
	ext := strings.ToLower(path.Ext(strings.Split(sourceURL, "?")[0]))

	switch {
	case ct == ContentTypeSVG || ext == ".svg" || bytes.Contains(head(data, 512), []byte("<svg")):
		return Image{Data: data, ContentType: ContentTypeSVG, Ext: ".svg"}
	}

	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		ct = sniffed
	} else if !strings.HasPrefix(ct, "image/") {
		ct = "application/octet-stream"
	}

	return Image{Data: data, ContentType: ct, Ext: extensionFor(ct, ext)}
}

// IsPassthrough: GIF (có thể animated) và SVG (vector) giữ nguyên
func IsPassthrough(img Image) bool {
	return img.ContentType == ContentTypeGIF || img.ContentType == ContentTypeSVG
}

// Transcode re-encodes src as JPEG at its original dimensions. Transparent
// areas are flattened onto white.
func (p *ImageProcessor) Transcode(src Image) (Image, error) {
	if p.MaxSize > 0 && int64(len(src.Data)) > p.MaxSize {
		return Image{}, fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}

	decoded, format, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return Image{}, fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := decoded.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.Overlay(canvas, decoded, image.Pt(0, 0), 1.0)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, flat, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return Image{}, fmt.Errorf("cannot encode %s as jpeg: %w", format, err)
	}

	return Image{
		Data:        buf.Bytes(),
		ContentType: ContentTypeJPEG,
		Ext:         ".jpg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func extensionFor(contentType, fallback string) string {
	switch contentType {
	case ContentTypeJPEG:
		return ".jpg"
	case "image/png":
		return ".png"
	case ContentTypeGIF:
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if fallback != "" {
		return fallback
	}
	return ".bin"
}

func head(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}
