package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookstore-migrator/internal/infrastructure/httpx"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
)

// maxDownloadSize giới hạn 25MB mỗi ảnh
const maxDownloadSize = 25 * 1024 * 1024

// ErrTooLarge: body vượt maxSize, không bao giờ trả về bytes bị cắt
var ErrTooLarge = errors.New("download exceeds size limit")

type DownloadOptions struct {
	Timeout    time.Duration // timeout cho mỗi attempt
	Retries    int           // tổng số attempt (>= 1)
	RetryDelay time.Duration // delay * attempt giữa các lần thử
}

// Download is the fetched body plus what the server said about it.
type Download struct {
	Data        []byte
	ContentType string
	Attempts    int
}

// Downloader fetches images with a per-attempt timeout and linear backoff.
type Downloader struct {
	client  *http.Client
	opts    DownloadOptions
	maxSize int64
}

func NewDownloader(client *http.Client, opts DownloadOptions) *Downloader {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	return &Downloader{client: client, opts: opts, maxSize: maxDownloadSize}
}

// Fetch tries up to Retries times, waiting RetryDelay*attempt between tries.
// When every attempt fails the last underlying error is returned unchanged.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (*Download, error) {
	var result *Download
	attempts := 0

	operation := func() error {
		attempts++
		dl, err := d.fetchOnce(ctx, rawURL)
		if err != nil {
			return err
		}
		result = dl
		return nil
	}

	notify := func(err error, next time.Duration) {
		log.Warn().
			Err(err).
			Str("url", rawURL).
			Int("attempt", attempts).
			Dur("retry_in", next).
			Msg("Download failed, retrying")
	}

	if err := backoff.RetryNotify(operation, d.policy(ctx), notify); err != nil {
		return nil, err
	}

	result.Attempts = attempts
	return result, nil
}

func (d *Downloader) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if d.opts.Retries > 1 {
		b = backoff.WithMaxRetries(&linearBackOff{step: d.opts.RetryDelay}, uint64(d.opts.Retries-1))
	}
	return backoff.WithContext(b, ctx)
}

func (d *Downloader) fetchOnce(ctx context.Context, rawURL string) (*Download, error) {
	attemptCtx := ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.ContentLength > d.maxSize {
		resp.Body.Close()
		return nil, backoff.Permanent(fmt.Errorf("%w: %d bytes from %s", ErrTooLarge, resp.ContentLength, rawURL))
	}
	// Đọc thêm 1 byte để phát hiện body vượt giới hạn
	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, d.maxSize+1), resp.Body}

	data, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > d.maxSize {
		return nil, backoff.Permanent(fmt.Errorf("%w: more than %d bytes from %s", ErrTooLarge, d.maxSize, rawURL))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body from %s", rawURL)
	}

	return &Download{Data: data, ContentType: contentType}, nil
}

// linearBackOff: step, 2*step, 3*step, ...
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.step * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }
