package handlers

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/treetop/internal/config"
	"github.com/vancomm/treetop/internal/forest"
	"github.com/vancomm/treetop/internal/repository"
)

const sample = "30373\n25512\n65332\n33549\n35390\n"

type memStore struct {
	mu      sync.Mutex
	surveys []repository.Survey
}

func (m *memStore) CreateSurvey(
	ctx context.Context, params repository.CreateSurveyParams,
) (*repository.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fp := params.Grid.Fingerprint()
	for _, s := range m.surveys {
		if string(s.Fingerprint) == string(fp) {
			return nil, repository.ErrDuplicateSurvey
		}
	}
	s := repository.Survey{
		SurveyId:    int64(len(m.surveys) + 1),
		Fingerprint: fp,
		Width:       params.Survey.Width,
		Height:      params.Survey.Height,
		Visible:     params.Survey.Visible,
		ScenicScore: params.Survey.ScenicScore,
		BestRow:     params.Survey.BestRow,
		BestCol:     params.Survey.BestCol,
		Grid:        params.Grid.String(),
		CreatedAt:   time.UnixMilli(1700000000000 + int64(len(m.surveys))),
	}
	m.surveys = append(m.surveys, s)
	return &s, nil
}

func (m *memStore) GetSurvey(ctx context.Context, surveyId int64) (*repository.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.surveys {
		if s.SurveyId == surveyId {
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) GetSurveyByFingerprint(ctx context.Context, fingerprint []byte) (*repository.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.surveys {
		if string(s.Fingerprint) == string(fingerprint) {
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) ListSurveys(ctx context.Context, filter repository.SurveyFilter) ([]repository.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Survey
	for i := len(m.surveys) - 1; i >= 0; i-- {
		s := m.surveys[i]
		if filter.Width != nil && s.Width != *filter.Width {
			continue
		}
		if filter.Height != nil && s.Height != *filter.Height {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func newTestServer(t *testing.T, maxGridBytes int64) (*httptest.Server, *memStore) {
	t.Helper()
	store := &memStore{}
	ws, err := config.NewWebSocket(maxGridBytes)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewSurveyHandler(logger, store, ws, maxGridBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /surveys", h.Create)
	mux.HandleFunc("GET /surveys", h.List)
	mux.HandleFunc("GET /surveys/connect", h.ConnectWS)
	mux.HandleFunc("GET /surveys/{id}", h.Fetch)
	mux.HandleFunc("GET /surveys/{id}/grid", h.FetchGrid)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func postGrid(t *testing.T, srv *httptest.Server, grid string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Post(srv.URL+"/surveys", "text/plain", strings.NewReader(grid))
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res, body
}

func TestCreateSurvey(t *testing.T) {
	srv, store := newTestServer(t, 1<<20)

	res, body := postGrid(t, srv, sample)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "1", body["survey_id"])
	assert.EqualValues(t, 21, body["visible"])
	assert.EqualValues(t, 8, body["scenic_score"])
	assert.EqualValues(t, 3, body["best_row"])
	assert.EqualValues(t, 2, body["best_col"])

	grid, err := forest.Parse(sample)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(grid.Fingerprint()), body["fingerprint"])
	assert.Len(t, store.surveys, 1)
}

func TestCreateSurveyTwiceReturnsExisting(t *testing.T) {
	srv, store := newTestServer(t, 1<<20)

	res, _ := postGrid(t, srv, sample)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := postGrid(t, srv, strings.ReplaceAll(sample, "\n", "\r\n"))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "1", body["survey_id"])
	assert.Len(t, store.surveys, 1)
}

func TestCreateSurveyMalformed(t *testing.T) {
	srv, store := newTestServer(t, 1<<20)

	tests := []struct {
		name   string
		input  string
		line   float64
		column float64
	}{
		{"empty", "", 0, 0},
		{"ragged", "123\n12\n", 2, 0},
		{"not a digit", "123\n1x3\n", 2, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, body := postGrid(t, srv, test.input)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Contains(t, body["error"], "parse grid")
			if test.line > 0 {
				assert.Equal(t, test.line, body["line"])
			}
			if test.column > 0 {
				assert.Equal(t, test.column, body["column"])
			}
		})
	}
	assert.Empty(t, store.surveys)
}

func TestCreateSurveyTooLarge(t *testing.T) {
	srv, _ := newTestServer(t, 16)

	res, _ := postGrid(t, srv, sample)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestCreateSurveyScoreBeyondInt32(t *testing.T) {
	const size = 501
	var b strings.Builder
	for r := range size {
		for c := range size {
			if r == size/2 && c == size/2 {
				b.WriteByte('9')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}

	srv, store := newTestServer(t, 1<<20)
	res, body := postGrid(t, srv, b.String())
	require.Equal(t, http.StatusCreated, res.StatusCode)

	const want = int64(250 * 250 * 250 * 250)
	assert.EqualValues(t, want, body["scenic_score"])
	require.Len(t, store.surveys, 1)
	assert.Equal(t, want, store.surveys[0].ScenicScore)
	assert.Equal(t, want, NewSurveyDTO(&store.surveys[0]).ScenicScore)
}

func TestFetchSurvey(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)
	postGrid(t, srv, sample)

	res, err := http.Get(srv.URL + "/surveys/1")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var dto SurveyDTO
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dto))
	assert.Equal(t, 21, dto.Visible)
	assert.Equal(t, int64(8), dto.ScenicScore)
	assert.Equal(t, int64(1700000000000), dto.CreatedAt)

	res, err = http.Get(srv.URL + "/surveys/1/grid")
	require.NoError(t, err)
	defer res.Body.Close()
	text, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, sample, string(text))
}

func TestFetchSurveyMissing(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)

	res, err := http.Get(srv.URL + "/surveys/42")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(srv.URL + "/surveys/abc")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListSurveys(t *testing.T) {
	srv, _ := newTestServer(t, 1<<20)
	postGrid(t, srv, sample)
	postGrid(t, srv, "123\n456\n789\n")
	postGrid(t, srv, "999\n919\n999\n")

	list := func(query string) []SurveyDTO {
		res, err := http.Get(srv.URL + "/surveys" + query)
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var dtos []SurveyDTO
		require.NoError(t, json.NewDecoder(res.Body).Decode(&dtos))
		return dtos
	}

	all := list("")
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].SurveyId)

	threes := list("?width=3&height=3")
	require.Len(t, threes, 2)
	assert.Equal(t, 8, threes[0].Visible)
	assert.Equal(t, 9, threes[1].Visible)

	res, err := http.Get(srv.URL + "/surveys?width=wide")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestConnectWS(t *testing.T) {
	srv, store := newTestServer(t, 1<<20)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/surveys/connect"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(sample)))
	var dto SurveyDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Empty(t, dto.SurveyId)
	assert.Equal(t, 21, dto.Visible)
	assert.Equal(t, int64(8), dto.ScenicScore)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("12\n3\n")))
	var errDTO errorDTO
	require.NoError(t, conn.ReadJSON(&errDTO))
	assert.Equal(t, 2, errDTO.Line)
	assert.Contains(t, errDTO.Error, "ragged row")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("12\n34")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 4, dto.Visible)
	assert.Equal(t, -1, dto.BestRow)

	assert.Empty(t, store.surveys)
}
