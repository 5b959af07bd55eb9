package interactionstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotazy/faqbot/internal/domain/interaction"
)

// fakeContentsAPI emulates the slice of the GitHub contents API the
// backend depends on: GET returns base64 content and a sha, PUT replaces
// the file and requires the current sha once the file exists.
type fakeContentsAPI struct {
	t        *testing.T
	content  []byte
	sha      int
	lastAuth string
}

func (f *fakeContentsAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			if f.content == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"content": base64.StdEncoding.EncodeToString(f.content),
				"sha":     fmt.Sprintf("sha-%d", f.sha),
			})
		case http.MethodPut:
			var body struct {
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
			if f.content != nil {
				require.Equal(f.t, fmt.Sprintf("sha-%d", f.sha), body.SHA)
			}
			decoded, err := base64.StdEncoding.DecodeString(body.Content)
			require.NoError(f.t, err)
			f.content = decoded
			f.sha++
			json.NewEncoder(w).Encode(map[string]any{"content": map[string]string{}})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func newGithubStoreUnderTest(t *testing.T) (*GithubStore, *fakeContentsAPI) {
	api := &fakeContentsAPI{t: t}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	store := NewGithubStore(GithubConfig{
		BaseURL: server.URL,
		Owner:   "dotazy",
		Repo:    "faq-data",
		Path:    "interactions.csv",
		Branch:  "main",
		Token:   "test-token",
	})
	return store, api
}

func TestGithubStoreAppendAndRate(t *testing.T) {
	ctx := context.Background()
	store, api := newGithubStoreUnderTest(t)

	id, err := store.Append(ctx, "Jak se resetuje heslo?", "Klikněte na Zapomenuté heslo.")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "Bearer test-token", api.lastAuth)

	second, err := store.Append(ctx, "q2", "a2")
	require.NoError(t, err)
	require.Equal(t, int64(2), second)

	require.NoError(t, store.UpdateRating(ctx, id, interaction.RatingUp))

	rec, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, interaction.RatingUp, rec.Rating)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "q2", recent[0].Question)
}

func TestGithubStoreUnknownID(t *testing.T) {
	ctx := context.Background()
	store, _ := newGithubStoreUnderTest(t)

	_, err := store.Append(ctx, "q", "a")
	require.NoError(t, err)

	err = store.UpdateRating(ctx, 42, interaction.RatingDown)
	require.ErrorIs(t, err, interaction.ErrNotFound)
}

func TestGithubStoreBackendFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	store := NewGithubStore(GithubConfig{BaseURL: server.URL, Owner: "o", Repo: "r", Path: "p.csv"})
	_, err := store.Append(context.Background(), "q", "a")
	require.Error(t, err)
}
