package interactionstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dotazy/faqbot/internal/domain/interaction"
	"github.com/dotazy/faqbot/pkg/util"
)

const defaultGithubAPI = "https://api.github.com"

// GithubConfig locates the CSV dataset inside a GitHub repository.
type GithubConfig struct {
	BaseURL string
	Owner   string
	Repo    string
	Path    string
	Branch  string
	Token   string
}

// GithubStore keeps the interaction CSV inside a GitHub repository via
// the contents API. Like the local file backend, every mutation is a
// whole-dataset read-modify-write (GET content+sha, mutate, PUT the full
// file); the mutex serializes cycles within this process only, and a
// concurrent writer elsewhere loses the race on the sha.
type GithubStore struct {
	cfg        GithubConfig
	httpClient *http.Client
	mu         sync.Mutex
}

// NewGithubStore builds the remote-repository backend.
func NewGithubStore(cfg GithubConfig) *GithubStore {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultGithubAPI
	}
	cfg.BaseURL = strings.TrimRight(base, "/")
	if strings.TrimSpace(cfg.Branch) == "" {
		cfg.Branch = "main"
	}
	return &GithubStore{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Append implements interaction.Store.
func (s *GithubStore) Append(ctx context.Context, question, answer string) (int64, error) {
	var id int64
	err := s.withDataset(ctx, "log interaction", func(records []interaction.Record) ([]interaction.Record, error) {
		id = nextRecordID(records)
		return append(records, interaction.Record{
			ID:        id,
			Question:  question,
			Answer:    answer,
			Rating:    interaction.RatingNone,
			CreatedAt: util.NowUTC(),
		}), nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateRating implements interaction.Store.
func (s *GithubStore) UpdateRating(ctx context.Context, id int64, rating interaction.Rating) error {
	return s.withDataset(ctx, fmt.Sprintf("rate interaction %d", id), func(records []interaction.Record) ([]interaction.Record, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Rating = rating
				return records, nil
			}
		}
		return nil, interaction.ErrNotFound
	})
}

// Get implements interaction.Store.
func (s *GithubStore) Get(ctx context.Context, id int64) (interaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.fetch(ctx)
	if err != nil {
		return interaction.Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return interaction.Record{}, interaction.ErrNotFound
}

// Recent implements interaction.Store.
func (s *GithubStore) Recent(ctx context.Context, limit int) ([]interaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return recentOf(records, limit), nil
}

func (s *GithubStore) withDataset(ctx context.Context, message string, mutate func([]interaction.Record) ([]interaction.Record, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, sha, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	updated, err := mutate(records)
	if err != nil {
		return err
	}
	return s.put(ctx, updated, sha, message)
}

type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// fetch retrieves the dataset and its blob sha. A 404 means the file has
// not been created yet and reads as an empty dataset.
func (s *GithubStore) fetch(ctx context.Context) ([]interaction.Record, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentURL()+"?ref="+s.cfg.Branch, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build contents request: %w", err)
	}
	s.decorate(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("contents request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, "", fmt.Errorf("contents request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, "", fmt.Errorf("decode contents response: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode file content: %w", err)
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, "", err
	}
	return records, raw.SHA, nil
}

func (s *GithubStore) put(ctx context.Context, records []interaction.Record, sha, message string) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  s.cfg.Branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode contents payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build contents update: %w", err)
	}
	s.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contents update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("contents update error: status=%d body=%s", resp.StatusCode, string(errBody))
	}
	return nil
}

func (s *GithubStore) contentURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, s.cfg.Path)
}

func (s *GithubStore) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
}

var _ interaction.Store = (*GithubStore)(nil)
