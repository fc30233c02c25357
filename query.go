package tgvmaxmap

import (
	"net/url"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// lowerParams flattens query values to their first value under a
// lower-cased key, so originName and ORIGIN are both accepted.
func lowerParams(values url.Values) map[string]string {
	params := map[string]string{}
	for k, v := range values {
		if len(v) > 0 {
			params[strings.ToLower(k)] = strings.TrimSpace(v[0])
		}
	}
	return params
}

// parseFilter reads origin, destination and date from the query string.
func parseFilter(values url.Values) (aggregate.Filter, error) {
	params := lowerParams(values)
	f := aggregate.Filter{
		Origin:      params["origin"],
		Destination: params["destination"],
		Date:        params["date"],
	}
	if f.Date != "" {
		if _, err := time.Parse(internal.DateLayout, f.Date); err != nil {
			return aggregate.Filter{}, &QueryError{Msg: "date must be formatted as YYYY-MM-DD: " + f.Date}
		}
	}
	return f, nil
}
