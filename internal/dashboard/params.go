package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/session"
	"github.com/rajanjha2004/HotelData/internal/staffing"
)

// ParamsRequest carries UI choices, from the query string or a websocket message.
// Unset fields keep the session's current value.
type ParamsRequest struct {
	From        string             `form:"from" json:"from"`
	To          string             `form:"to" json:"to"`
	Key         string             `form:"key" json:"key"`
	Metric      string             `form:"metric" json:"metric"`
	Granularity string             `form:"granularity" json:"granularity"`
	Horizon     *int               `form:"horizon" json:"horizon"`
	Confidence  *float64           `form:"confidence" json:"confidence"`
	Ratio       *float64           `form:"ratio" json:"ratio"`
	MinStaff    *int               `form:"min_staff" json:"min_staff"`
	PrepFactor  *float64           `form:"prep_factor" json:"prep_factor"`
	Roles       string             `form:"roles" json:"roles"`
	Inventory   map[string]float64 `form:"-" json:"inventory"`
}

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or an RFC 3339 timestamp. An end date is
// inclusive, so it is moved to the following midnight.
func parseDate(field, value string, loc *time.Location, end bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		if end {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &models.ConfigError{Field: field, Reason: fmt.Sprintf("%q is not a date", value)}
	}
	return t.In(loc), nil
}

// Apply overlays the request on base. Value ranges are checked by the
// pipeline stages that use them.
func (r ParamsRequest) Apply(base session.Params, loc *time.Location) (session.Params, error) {
	p := base
	var err error
	if r.From != "" {
		if p.From, err = parseDate("from", r.From, loc, false); err != nil {
			return base, err
		}
	}
	if r.To != "" {
		if p.To, err = parseDate("to", r.To, loc, true); err != nil {
			return base, err
		}
	}
	if r.Key != "" {
		p.GroupKey = models.GroupKey(strings.ToLower(r.Key))
	}
	if r.Metric != "" {
		p.Metric = models.Metric(strings.ToLower(r.Metric))
	}
	if r.Granularity != "" {
		p.Granularity = models.GroupKey(strings.ToLower(r.Granularity))
	}
	if r.Horizon != nil {
		p.Forecast.Horizon = *r.Horizon
	}
	if r.Confidence != nil {
		p.Forecast.Confidence = *r.Confidence
	}
	if r.Ratio != nil {
		p.Ratio = *r.Ratio
	}
	if r.MinStaff != nil {
		p.Staffing.MinStaff = *r.MinStaff
	}
	if r.PrepFactor != nil {
		p.Staffing.PrepTimeFactor = *r.PrepFactor
	}
	if r.Roles != "" {
		roles, err := staffing.ParseRoles(r.Roles)
		if err != nil {
			return base, err
		}
		p.Staffing.Roles = roles
	}
	if r.Inventory != nil {
		p.Inventory = r.Inventory
	}
	return p, nil
}

// queryParams reads the request's query string over the session defaults
func (s *Server) queryParams(c *gin.Context, sess *session.Session) (session.Params, error) {
	var req ParamsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return sess.Params, &models.ConfigError{Field: "query", Reason: err.Error()}
	}
	return req.Apply(sess.Params, s.cfg.Location())
}
