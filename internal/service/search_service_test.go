package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/streamfinder/internal/config"
	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/utils"
)

type fakeStreamingClient struct {
	movies []model.Movie
	err    error
	panic  bool
	calls  atomic.Int32
}

func (f *fakeStreamingClient) Search(_ context.Context, _ string) ([]model.Movie, error) {
	f.calls.Add(1)
	if f.panic {
		panic("boom")
	}
	return f.movies, f.err
}

func movie(id string, rating *float64) model.Movie {
	return model.Movie{ID: id, Title: "Movie " + id, Rating: rating}
}

func titles(items []model.Movie) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Title)
	}
	return out
}

func TestResolve_EmptyQueryMakesNoCall(t *testing.T) {
	client := &fakeStreamingClient{}
	svc := NewSearchService(client, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		for _, page := range []int{0, 1, 7} {
			res, err := svc.Resolve(context.Background(), q, page)
			require.NoError(t, err)
			assert.Empty(t, res.Items)
			assert.NotNil(t, res.Items)
			assert.Equal(t, 1, res.TotalPages)
			assert.Empty(t, res.Advisory)
		}
	}
	assert.Zero(t, client.calls.Load())
}

func TestResolve_InvalidPage(t *testing.T) {
	svc := NewSearchService(&fakeStreamingClient{}, nil)

	res, err := svc.Resolve(context.Background(), "dark", 0)

	assert.Nil(t, res)
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, 0, resErr.Page)
}

func TestResolve_PrimarySortsAndPaginates(t *testing.T) {
	// 30 条：评分交替出现缺失，验证稳定排序与分页
	var shows []model.Movie
	for i := 0; i < 30; i++ {
		var rating *float64
		switch i % 3 {
		case 0:
			rating = floatPtr(7)
		case 1:
			rating = floatPtr(9)
		}
		shows = append(shows, movie(fmt.Sprintf("%02d", i), rating))
	}
	client := &fakeStreamingClient{movies: shows}
	svc := NewSearchService(client, nil)

	var all []model.Movie
	for page := 1; page <= 3; page++ {
		res, err := svc.Resolve(context.Background(), "movie", page)
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalPages, "total pages must not depend on page")
		assert.Equal(t, 30, res.TotalCount)
		assert.Equal(t, model.SourcePrimary, res.Source)
		assert.False(t, res.SourceIsFallback())
		assert.Empty(t, res.Advisory)
		assert.LessOrEqual(t, len(res.Items), utils.PageSize)
		all = append(all, res.Items...)
	}
	require.Len(t, all, 30)

	// 9 分 10 条、7 分 10 条、无评分 10 条，各组内保持到达顺序
	assert.Equal(t, "Movie 01", all[0].Title)
	assert.Equal(t, "Movie 04", all[1].Title)
	assert.Equal(t, "Movie 00", all[10].Title)
	assert.Equal(t, "Movie 02", all[20].Title)
	assert.Equal(t, "Movie 29", all[29].Title)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Score(), all[i].Score())
	}

	// 原始切片不被修改
	assert.Equal(t, "Movie 00", shows[0].Title)

	res, err := svc.Resolve(context.Background(), "movie", 4)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.TotalPages)
}

func TestResolve_FallbackTriggers(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeStreamingClient
		advisory string
	}{
		{
			name:     "non-2xx response",
			client:   &fakeStreamingClient{err: &utils.StatusError{StatusCode: http.StatusInternalServerError}},
			advisory: AdvisoryDemoData,
		},
		{
			name:     "unauthorized",
			client:   &fakeStreamingClient{err: &utils.StatusError{StatusCode: http.StatusUnauthorized}},
			advisory: AdvisoryDemoData,
		},
		{
			name:     "missing api key",
			client:   &fakeStreamingClient{err: ErrMissingAPIKey},
			advisory: AdvisoryDemoData,
		},
		{
			name:     "network error",
			client:   &fakeStreamingClient{err: errors.New("dial tcp: connection refused")},
			advisory: AdvisoryDemoDataError,
		},
		{
			name:     "empty shows",
			client:   &fakeStreamingClient{movies: []model.Movie{}},
			advisory: AdvisoryDemoData,
		},
		{
			name:     "client panic",
			client:   &fakeStreamingClient{panic: true},
			advisory: AdvisoryDemoDataError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSearchService(tt.client, nil)

			res, err := svc.Resolve(context.Background(), "Sci-Fi", 1)

			require.NoError(t, err)
			assert.True(t, res.SourceIsFallback())
			assert.Equal(t, []string{"Inception", "Interstellar"}, titles(res.Items))
			assert.Equal(t, 1, res.TotalPages)
			assert.Equal(t, tt.advisory, res.Advisory)
		})
	}
}

func TestResolve_FallbackExamples(t *testing.T) {
	svc := NewSearchService(&fakeStreamingClient{err: ErrMissingAPIKey}, nil)

	t.Run("title match", func(t *testing.T) {
		res, err := svc.Resolve(context.Background(), "dark", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"The Dark Knight"}, titles(res.Items))
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("genre match sorted by rating", func(t *testing.T) {
		res, err := svc.Resolve(context.Background(), "sci-fi", 1)
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "Inception", res.Items[0].Title)
		assert.Equal(t, 8.8, res.Items[0].Score())
		assert.Equal(t, "Interstellar", res.Items[1].Title)
	})

	t.Run("page beyond range", func(t *testing.T) {
		res, err := svc.Resolve(context.Background(), "a", 1)
		require.NoError(t, err)
		assert.Len(t, res.Items, 4)
		assert.Equal(t, []string{"The Dark Knight", "Inception", "Interstellar", "Avengers: Endgame"}, titles(res.Items))

		res, err = svc.Resolve(context.Background(), "a", 2)
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Equal(t, 1, res.TotalPages)
		assert.Equal(t, 4, res.TotalCount)
	})

	t.Run("no match", func(t *testing.T) {
		res, err := svc.Resolve(context.Background(), "zzz", 1)
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Equal(t, 1, res.TotalPages)
		assert.Equal(t, AdvisoryNoResults, res.Advisory)
		assert.True(t, res.SourceIsFallback())
	})
}

func TestResolve_PrimaryAndFallbackNeverMerge(t *testing.T) {
	// 远程返回无评分的结果时不能混入演示数据
	shows := []model.Movie{
		{ID: "x", Title: "Inception: The Cobol Job"},
		{ID: "y", Title: "Inception Extras"},
	}
	svc := NewSearchService(&fakeStreamingClient{movies: shows}, nil)

	res, err := svc.Resolve(context.Background(), "inception", 1)

	require.NoError(t, err)
	assert.Equal(t, model.SourcePrimary, res.Source)
	assert.Equal(t, []string{"Inception: The Cobol Job", "Inception Extras"}, titles(res.Items))
}

func TestResolve_CancelledContextFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewRapidAPIClient(config.StreamingConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 5 * time.Second})
	svc := NewSearchService(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := svc.Resolve(ctx, "dark", 1)

	require.NoError(t, err)
	assert.True(t, res.SourceIsFallback())
	assert.Equal(t, AdvisoryDemoDataError, res.Advisory)
}

func TestResolve_SharedCallSurvivesOtherCallerCancel(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"shows":[{"id":"9","title":"The Dark Knight Rises","rating":8.1}],"hasMore":false}`))
	}))
	defer srv.Close()

	client := NewRapidAPIClient(config.StreamingConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 5 * time.Second})
	svc := NewSearchService(client, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var resA, resB *model.SearchResult
	var wg conc.WaitGroup
	wg.Go(func() {
		resA, _ = svc.Resolve(ctxA, "dark", 1)
	})
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	wg.Go(func() {
		resB, _ = svc.Resolve(context.Background(), "dark", 1)
	})

	// A 中途离开，B 仍在等同一次上游调用
	time.Sleep(100 * time.Millisecond)
	cancelA()
	wg.Wait()

	require.NotNil(t, resA)
	assert.True(t, resA.SourceIsFallback())

	require.NotNil(t, resB)
	assert.Equal(t, model.SourcePrimary, resB.Source)
	assert.Equal(t, []string{"The Dark Knight Rises"}, titles(resB.Items))
	assert.Empty(t, resB.Advisory)
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolve_Reentrant(t *testing.T) {
	svc := NewSearchService(&fakeStreamingClient{err: ErrMissingAPIKey}, nil)

	var failures atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 32; i++ {
		query := []string{"dark", "sci-fi", "drama", "zzz"}[i%4]
		wg.Go(func() {
			res, err := svc.Resolve(context.Background(), query, 1)
			if err != nil || res == nil || res.TotalPages != 1 {
				failures.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
}

func TestSortByRating(t *testing.T) {
	in := []model.Movie{
		movie("a", nil),
		movie("b", floatPtr(0)),
		movie("c", floatPtr(5)),
		movie("d", nil),
		movie("e", floatPtr(5)),
	}

	out := SortByRating(in)

	// 缺失评分等同 0，不是排到最后
	assert.Equal(t, []string{"Movie c", "Movie e", "Movie a", "Movie b", "Movie d"}, titles(out))
	assert.Equal(t, "Movie a", in[0].Title)
}
