package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	svcErr "github.com/samdevvv/telofundi/internal/errors"
)

const (
	UserIDHeader   = "X-User-ID"
	UserTypeHeader = "X-User-Type"
)

// requesterID reads X-User-ID. When required is false a missing header
// yields 0 (anonymous).
func requesterID(c *gin.Context, required bool) (uint64, error) {
	raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if raw == "" {
		if required {
			return 0, svcErr.Invalid(UserIDHeader, "header is required")
		}
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Invalid(UserIDHeader, "must be a positive integer")
	}
	return id, nil
}

// queryParser accumulates the first parse error so handlers can read all
// parameters and check once.
type queryParser struct {
	c   *gin.Context
	err error
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.c.Query(key))
}

func (p *queryParser) integer(key string) int {
	raw := p.str(key)
	if raw == "" || p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = svcErr.Invalid(key, "must be an integer")
	}
	return v
}

func (p *queryParser) intPtr(key string) *int {
	if p.str(key) == "" {
		return nil
	}
	v := p.integer(key)
	return &v
}

func (p *queryParser) floatPtr(key string) *float64 {
	raw := p.str(key)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = svcErr.Invalid(key, "must be a number")
		return nil
	}
	return &v
}

func (p *queryParser) boolPtr(key string) *bool {
	raw := p.str(key)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = svcErr.Invalid(key, "must be true or false")
		return nil
	}
	return &v
}

// list accepts both repeated keys and comma separated values.
func (p *queryParser) list(key string) []string {
	var out []string
	for _, raw := range p.c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
