package ranking

import (
	"strings"

	"github.com/samdevvv/telofundi/internal/db"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
	"github.com/samdevvv/telofundi/internal/repository"
	"github.com/samdevvv/telofundi/internal/utils/pagination"
)

const (
	minAge = 18
	maxAge = 99

	maxRating = 5.0

	defaultRecommendLimit = 10
	maxRecommendLimit     = 50
)

// searchableTypes are the only user types search returns.
var searchableTypes = []string{db.UserTypeEscort, db.UserTypeAgency}

// complementaryTypes maps a requester type to the types recommended to it.
var complementaryTypes = map[string][]string{
	db.UserTypeClient: {db.UserTypeEscort, db.UserTypeAgency},
	db.UserTypeEscort: {db.UserTypeClient, db.UserTypeAgency},
	db.UserTypeAgency: {db.UserTypeEscort, db.UserTypeClient},
}

// SearchFilters is a search request as received from a client.
// Zero values mean "no filter".
type SearchFilters struct {
	Query     string
	UserType  string
	Location  string
	Verified  *bool
	AgeMin    *int
	AgeMax    *int
	Services  []string
	Languages []string
	MinRating *float64
	Online    bool
	SortBy    string
}

func (f *SearchFilters) normalize() {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	f.UserType = strings.ToUpper(strings.TrimSpace(f.UserType))
	f.SortBy = strings.ToLower(strings.TrimSpace(f.SortBy))
	if f.SortBy == "" {
		f.SortBy = repository.SortRelevance
	}
	f.Services = compact(f.Services)
	f.Languages = compact(f.Languages)
}

func (f *SearchFilters) validate() error {
	if f.UserType != "" && f.UserType != db.UserTypeEscort && f.UserType != db.UserTypeAgency {
		return svcErr.Invalid("userType", "must be one of ESCORT, AGENCY")
	}
	if !repository.ValidSort(f.SortBy) {
		return svcErr.Invalid("sortBy", "unknown sort key %q", f.SortBy)
	}
	if f.AgeMin != nil && (*f.AgeMin < minAge || *f.AgeMin > maxAge) {
		return svcErr.Invalid("ageMin", "must be between %d and %d", minAge, maxAge)
	}
	if f.AgeMax != nil && (*f.AgeMax < minAge || *f.AgeMax > maxAge) {
		return svcErr.Invalid("ageMax", "must be between %d and %d", minAge, maxAge)
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return svcErr.Invalid("ageMin", "must not exceed ageMax")
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > maxRating) {
		return svcErr.Invalid("minRating", "must be between 0 and %g", maxRating)
	}
	return nil
}

func (f *SearchFilters) userTypes() []string {
	if f.UserType != "" {
		return []string{f.UserType}
	}
	return searchableTypes
}

func validatePage(p pagination.Params) (pagination.Params, error) {
	p = p.WithDefaults()
	if p.Page < 1 {
		return p, svcErr.Invalid("page", "must be at least 1")
	}
	if p.Limit < 1 || p.Limit > pagination.MaxLimit {
		return p, svcErr.Invalid("limit", "must be between 1 and %d", pagination.MaxLimit)
	}
	if p.Page > pagination.MaxPage(p.Limit) {
		return p, svcErr.Invalid("page", "must be at most %d", pagination.MaxPage(p.Limit))
	}
	return p, nil
}

func validateRecommend(userID uint64, userType string, limit int) ([]string, int, error) {
	if userID == 0 {
		return nil, 0, svcErr.Invalid("userId", "is required")
	}
	types, ok := complementaryTypes[strings.ToUpper(strings.TrimSpace(userType))]
	if !ok {
		return nil, 0, svcErr.Invalid("userType", "must be one of CLIENT, ESCORT, AGENCY")
	}
	if limit == 0 {
		limit = defaultRecommendLimit
	}
	if limit < 1 || limit > maxRecommendLimit {
		return nil, 0, svcErr.Invalid("limit", "must be between 1 and %d", maxRecommendLimit)
	}
	return types, limit, nil
}

// compact trims values and drops empty ones.
func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
