package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/internal/infrastructure/httpx"
	"bookstore-migrator/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recorded
}

func (r *recorder) record(req *http.Request) recorded {
	body, _ := io.ReadAll(req.Body)
	rec := recorded{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.Query(),
		header: req.Header.Clone(),
		body:   string(body),
	}
	r.mu.Lock()
	r.requests = append(r.requests, rec)
	r.mu.Unlock()
	return rec
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, rec recorded)) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, rec.record(r))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.SupabaseConfig{
		URL:           srv.URL + "/",
		ServiceKey:    "service-key",
		StorageBucket: "authors",
	}, httpx.NewClient(5*time.Second))
	return c, rec
}

func TestSelectWhereIn_ChunksAndAuthHeaders(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		_, _ = io.WriteString(w, `[{"email":"a@x.mz"}]`)
	})

	emails := make([]string, 250)
	for i := range emails {
		emails[i] = fmt.Sprintf("user%d@x.mz", i)
	}

	type row struct {
		Email string `json:"email"`
	}
	rows, err := SelectWhereIn[row](context.Background(), c, "profiles", "id,email", "email", emails)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	require.Len(t, rec.requests, 3)
	first := rec.requests[0]
	assert.Equal(t, http.MethodGet, first.method)
	assert.Equal(t, "/rest/v1/profiles", first.path)
	assert.Equal(t, "id,email", first.query.Get("select"))
	assert.Equal(t, "service-key", first.header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", first.header.Get("Authorization"))

	filter := first.query.Get("email")
	assert.True(t, strings.HasPrefix(filter, `in.("user0@x.mz","user1@x.mz"`))
	assert.Equal(t, 100, strings.Count(filter, `@x.mz"`))
	assert.Equal(t, 50, strings.Count(rec.requests[2].query.Get("email"), `@x.mz"`))
}

func TestUpsert_PreferHeaderAndNoContent(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		w.WriteHeader(http.StatusNoContent)
	})

	rows := []map[string]any{{"id": "1", "name": "Mia Couto"}}
	require.NoError(t, c.Upsert(context.Background(), "profiles", rows, "id"))

	require.Len(t, rec.requests, 1)
	r := rec.requests[0]
	assert.Equal(t, http.MethodPost, r.method)
	assert.Equal(t, "id", r.query.Get("on_conflict"))
	assert.Equal(t, "resolution=merge-duplicates,return=minimal", r.header.Get("Prefer"))
	assert.Equal(t, "application/json", r.header.Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"1","name":"Mia Couto"}]`, r.body)
}

func TestUpdate_PatchesByColumn(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Update(context.Background(), "authors", "id", "42", map[string]string{"photo_url": "https://cdn/x.jpg"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.requests[0].method)
	assert.Equal(t, "eq.42", rec.requests[0].query.Get("id"))
}

func TestSelectPage_ErrorCarriesBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"column authors.photo_url does not exist"}`)
	})

	filters := url.Values{}
	filters.Set("photo_url", LikeFilter("wp-content/uploads"))
	_, err := SelectPage[map[string]any](context.Background(), c, "authors", "id,photo_url", filters, "id.asc", 50, 0)

	var reqErr *httpx.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "does not exist")
}

func TestSelectPage_Query(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		_, _ = io.WriteString(w, `[]`)
	})

	filters := url.Values{}
	filters.Set("photo_url", LikeFilter("wp-content/uploads"))
	rows, err := SelectPage[map[string]any](context.Background(), c, "authors", "id,photo_url", filters, "id.asc", 50, 100)
	require.NoError(t, err)
	assert.Empty(t, rows)

	q := rec.requests[0].query
	assert.Equal(t, "like.*wp-content/uploads*", q.Get("photo_url"))
	assert.Equal(t, "id.asc", q.Get("order"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "100", q.Get("offset"))
}

func TestCreateUser_AlreadyRegistered(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`)
	})

	_, err := c.CreateUser(context.Background(), "mia@livraria.mz", map[string]any{"name": "Mia"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	var body createUserRequest
	require.NoError(t, json.Unmarshal([]byte(rec.requests[0].body), &body))
	assert.True(t, body.EmailConfirm)
	assert.Equal(t, "/auth/v1/admin/users", rec.requests[0].path)
}

func TestListUsers_WalksPagesAndStops(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		page := r.query.Get("page")
		users := []AuthUser{}
		if page == "1" {
			for i := 0; i < adminUsersPerPage; i++ {
				users = append(users, AuthUser{ID: fmt.Sprintf("id-%d", i), Email: fmt.Sprintf("u%d@x.mz", i)})
			}
		} else if page == "2" {
			users = append(users, AuthUser{ID: "target-id", Email: "Mia@Livraria.mz"})
		}
		_ = json.NewEncoder(w).Encode(listUsersResponse{Users: users})
	})

	var seen []AuthUser
	err := c.ListUsers(context.Background(), func(u AuthUser) bool {
		seen = append(seen, u)
		return true
	})
	require.NoError(t, err)
	assert.Len(t, seen, adminUsersPerPage+1)
	assert.Equal(t, "target-id", seen[len(seen)-1].ID)
	require.Len(t, rec.requests, 2)
	assert.Equal(t, strconv.Itoa(adminUsersPerPage), rec.requests[1].query.Get("per_page"))

	// callback trả false → dừng ngay trong page đầu
	count := 0
	err = c.ListUsers(context.Background(), func(u AuthUser) bool {
		count++
		return count < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, rec.requests, 3)
}

func TestStorageUpload(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r recorded) {
		if strings.Contains(r.path, "taken") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`)
			return
		}
		_, _ = io.WriteString(w, `{"Key":"authors/1/1.jpg"}`)
	})

	publicURL, err := c.Upload(context.Background(), "authors/1/1.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(publicURL, "/storage/v1/object/public/authors/authors/1/1.jpg"))

	r := rec.requests[0]
	assert.Equal(t, "/storage/v1/object/authors/authors/1/1.jpg", r.path)
	assert.Equal(t, "false", r.header.Get("x-upsert"))
	assert.Equal(t, "image/jpeg", r.header.Get("Content-Type"))
	assert.Equal(t, "jpeg", r.body)

	_, err = c.Upload(context.Background(), "authors/1/taken.jpg", []byte("jpeg"), "image/jpeg")
	assert.True(t, errors.Is(err, storage.ErrObjectExists))
}

func TestInFilter_Quotes(t *testing.T) {
	assert.Equal(t, `in.("a@x.mz","o\"neill@x.mz")`, InFilter([]string{"a@x.mz", `o"neill@x.mz`}))
}
