package ranking_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdevvv/telofundi/internal/db"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/service/ranking"
	"github.com/samdevvv/telofundi/internal/utils/pagination"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool        { return &v }

func page(p, l int) pagination.Params { return pagination.Params{Page: p, Limit: l} }

func TestSearch_Defaults(t *testing.T) {
	e := setupService(t)

	res, err := e.svc.Search(context.Background(), ranking.SearchFilters{}, pagination.Params{}, 1)
	require.NoError(t, err)

	assert.Equal(t, []uint64{2, 4, 3}, ids(res.Users))
	assert.Equal(t, pagination.Info{Page: 1, Limit: 20, Total: 3, Pages: 1}, res.Pagination)
	for _, u := range res.Users {
		assert.NotEqual(t, db.UserTypeClient, u.UserType, "clients are not searchable")
	}
}

func TestSearch_Pagination(t *testing.T) {
	e := setupService(t)
	ctx := context.Background()

	first, err := e.svc.Search(ctx, ranking.SearchFilters{}, page(1, 2), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 4}, ids(first.Users))
	assert.Equal(t, pagination.Info{Page: 1, Limit: 2, Total: 3, Pages: 2, HasNext: true}, first.Pagination)

	second, err := e.svc.Search(ctx, ranking.SearchFilters{}, page(2, 2), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids(second.Users))
	assert.True(t, second.Pagination.HasPrev)
	assert.False(t, second.Pagination.HasNext)

	beyond, err := e.svc.Search(ctx, ranking.SearchFilters{}, page(5, 2), 1)
	require.NoError(t, err)
	assert.Empty(t, beyond.Users)
	assert.Equal(t, int64(3), beyond.Pagination.Total)
}

func TestSearch_OnlineUsesInjectedClock(t *testing.T) {
	e := setupService(t)

	res, err := e.svc.Search(context.Background(), ranking.SearchFilters{Online: true}, pagination.Params{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(res.Users))
}

func TestSearch_NormalizesInput(t *testing.T) {
	e := setupService(t)

	res, err := e.svc.Search(context.Background(), ranking.SearchFilters{
		UserType: " agency ",
		SortBy:   "POPULAR",
		Services: []string{"", "  "},
	}, pagination.Params{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids(res.Users))
}

func TestSearch_FiltersAndSorts(t *testing.T) {
	e := setupService(t)

	res, err := e.svc.Search(context.Background(), ranking.SearchFilters{
		Location:  "madrid",
		Languages: []string{"en"},
		AgeMin:    intp(18),
		AgeMax:    intp(30),
		MinRating: floatp(4.5),
		Verified:  boolp(true),
		SortBy:    "rating",
	}, pagination.Params{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(res.Users))
}

func TestSearch_Validation(t *testing.T) {
	e := setupService(t)

	cases := []struct {
		name    string
		filters ranking.SearchFilters
		page    pagination.Params
		field   string
	}{
		{"client type", ranking.SearchFilters{UserType: "CLIENT"}, pagination.Params{}, "userType"},
		{"unknown sort", ranking.SearchFilters{SortBy: "random"}, pagination.Params{}, "sortBy"},
		{"age below 18", ranking.SearchFilters{AgeMin: intp(17)}, pagination.Params{}, "ageMin"},
		{"age above 99", ranking.SearchFilters{AgeMax: intp(100)}, pagination.Params{}, "ageMax"},
		{"inverted ages", ranking.SearchFilters{AgeMin: intp(40), AgeMax: intp(30)}, pagination.Params{}, "ageMin"},
		{"rating above 5", ranking.SearchFilters{MinRating: floatp(5.5)}, pagination.Params{}, "minRating"},
		{"negative rating", ranking.SearchFilters{MinRating: floatp(-1)}, pagination.Params{}, "minRating"},
		{"negative page", ranking.SearchFilters{}, page(-1, 10), "page"},
		{"page offset overflows", ranking.SearchFilters{}, page(math.MaxInt/100+2, 100), "page"},
		{"limit too large", ranking.SearchFilters{}, page(1, 101), "limit"},
		{"negative limit", ranking.SearchFilters{}, page(1, -5), "limit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Search(context.Background(), tc.filters, tc.page, 1)
			require.Error(t, err)

			var ve *svcErr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRecommend_ClientGetsEscortsAndAgencies(t *testing.T) {
	e := setupService(t)

	users, err := e.svc.Recommend(context.Background(), 1, db.UserTypeClient, 0)
	require.NoError(t, err)

	// 3 was liked recently, 5 hides from discovery, 6 is banned,
	// 7 is blocked by the requester and 9 blocks the requester
	assert.Equal(t, []uint64{2, 4}, ids(users))
}

func TestRecommend_EscortGetsClientsAndAgencies(t *testing.T) {
	e := setupService(t)

	users, err := e.svc.Recommend(context.Background(), 2, "escort", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 8, 1}, ids(users))
}

func TestRecommend_ExcludesRecentTargets(t *testing.T) {
	e := setupService(t)

	events := []db.Interaction{
		interaction(1, uptr(2), db.InteractionView, 1, testNow.Add(-10)),
	}
	require.NoError(t, e.db.Create(&events).Error)

	users, err := e.svc.Recommend(context.Background(), 1, db.UserTypeClient, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids(users))
}

func TestRecommend_Limit(t *testing.T) {
	e := setupService(t)

	users, err := e.svc.Recommend(context.Background(), 2, db.UserTypeEscort, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids(users))
}

func TestRecommend_Validation(t *testing.T) {
	e := setupService(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		userID   uint64
		userType string
		limit    int
	}{
		{"missing requester", 0, db.UserTypeClient, 10},
		{"unknown type", 1, "ADMIN", 10},
		{"limit too large", 1, db.UserTypeClient, 51},
		{"negative limit", 1, db.UserTypeClient, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Recommend(ctx, tc.userID, tc.userType, tc.limit)
			assert.True(t, svcErr.IsValidation(err), "got %v", err)
		})
	}
}

func TestReputation(t *testing.T) {
	e := setupService(t)
	ctx := context.Background()

	rep, err := e.svc.Reputation(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 90.0, rep.OverallScore)

	_, err = e.svc.Reputation(ctx, 404)
	assert.True(t, svcErr.IsNotFound(err))
}
