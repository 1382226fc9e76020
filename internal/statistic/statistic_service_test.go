package statistic_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rh-management/internal/statistic"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countFn func(ctx context.Context, from, to time.Time) (int64, error)

type fakeLeaves struct{ fn countFn }

func (f fakeLeaves) CountPendingCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return f.fn(ctx, from, to)
}

type fakeHires struct{ fn countFn }

func (f fakeHires) CountHiredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return f.fn(ctx, from, to)
}

// byMonth answers with the count registered for the month starting at from.
func byMonth(counts map[string]int64) countFn {
	return func(_ context.Context, from, to time.Time) (int64, error) {
		if !to.Equal(from.AddDate(0, 1, 0)) {
			return 0, errors.New("range is not one month")
		}
		return counts[from.Format("2006-01")], nil
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		current, last int64
		want          string
	}{
		{12, 10, "20"},
		{5, 10, "-50"},
		{1, 3, "-66.67"},
		{7, 0, "0"},
		{0, 0, "0"},
		{4, 4, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statistic.Rate(tt.current, tt.last).String())
	}
}

func TestStatisticService_Dashboard(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	t.Run("success compares with previous month across year", func(t *testing.T) {
		svc := statistic.NewService(
			fakeLeaves{byMonth(map[string]int64{"2024-01": 6, "2023-12": 4})},
			fakeHires{byMonth(map[string]int64{"2024-01": 2, "2023-12": 0})},
			statistic.WithClock(now),
			statistic.WithLogger(zap.NewNop()),
		)

		resp, err := svc.Dashboard(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(6), resp.PendingLeaves.CurrentMonth)
		assert.Equal(t, int64(4), resp.PendingLeaves.LastMonth)
		assert.Equal(t, "50", resp.PendingLeaves.Rate.String())
		assert.Equal(t, int64(2), resp.Hires.CurrentMonth)
		assert.True(t, resp.Hires.Rate.IsZero())
	})

	t.Run("negative storage failure", func(t *testing.T) {
		svc := statistic.NewService(
			fakeLeaves{byMonth(nil)},
			fakeHires{func(context.Context, time.Time, time.Time) (int64, error) { return 0, errors.New("db down") }},
			statistic.WithClock(now),
			statistic.WithLogger(zap.NewNop()),
		)

		_, err := svc.Dashboard(context.Background())

		assert.Error(t, err)
	})
}

type fakeService struct {
	fn func(ctx context.Context) (statistic.DashboardResponse, error)
}

func (f fakeService) Dashboard(ctx context.Context) (statistic.DashboardResponse, error) {
	return f.fn(ctx)
}

func TestStatisticHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		h := statistic.NewHandler(fakeService{func(context.Context) (statistic.DashboardResponse, error) {
			return statistic.DashboardResponse{Hires: statistic.MonthlyCount{CurrentMonth: 3, LastMonth: 2, Rate: statistic.Rate(3, 2)}}, nil
		}}, zap.NewNop())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/statistics", nil)

		h.Dashboard(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"rate":"50"`)
	})

	t.Run("negative failure", func(t *testing.T) {
		h := statistic.NewHandler(fakeService{func(context.Context) (statistic.DashboardResponse, error) {
			return statistic.DashboardResponse{}, errors.New("db down")
		}}, zap.NewNop())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/statistics", nil)

		h.Dashboard(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
