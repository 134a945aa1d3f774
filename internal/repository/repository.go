package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
)

// CandidateRepository provides data access for the ranking subsystem:
// candidate users, interaction aggregates, reputation rows, settings and
// block edges. Every error it returns is a *errors.RepositoryError.
type CandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new repository bound to the given DB connection.
func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

// wrap classifies a GORM error into a RepositoryError.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return svcErr.Repo(svcErr.KindNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return svcErr.Repo(svcErr.KindConflict, op, err)
	default:
		return svcErr.Repo(svcErr.KindUnavailable, op, err)
	}
}

func notFound(op string) error {
	return svcErr.Repo(svcErr.KindNotFound, op, gorm.ErrRecordNotFound)
}

// likePattern lowercases s and escapes LIKE wildcards with '!'.
func likePattern(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '%')
	for _, r := range []rune(strings.ToLower(s)) {
		if r == '%' || r == '_' || r == '!' {
			out = append(out, '!')
		}
		out = append(out, r)
	}
	return string(append(out, '%'))
}
