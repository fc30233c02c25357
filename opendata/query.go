package opendata

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
)

// MaxPageSize is the largest limit the explore API accepts.
const MaxPageSize = 100

const (
	stationSelect    = "nom,libellecourt,position_geographique,codeinsee,codes_uic,segment_drg"
	stationWhere     = "position_geographique IS NOT NULL"
	connectionSelect = "origine,destination,origine_iata,destination_iata,date,heure_depart,heure_arrivee,train_no"
)

var validate = validator.New()

// Query holds the explore API query clauses of a paged fetch.
type Query struct {
	Select  string
	Where   string
	OrderBy string
}

// Values encodes the query with the given page bounds.
func (q Query) Values(limit, offset int) url.Values {
	v := url.Values{}
	if q.Select != "" {
		v.Set("select", q.Select)
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(offset))
	return v
}

// StationsQuery selects every station that has a position.
func StationsQuery() Query {
	return Query{Select: stationSelect, Where: stationWhere}
}

// Window is an inclusive range of travel dates.
type Window struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

// NewWindow returns the window of days starting at from.
func NewWindow(from time.Time, days int) Window {
	f, t := internal.DateWindow(from, days)
	return Window{From: f, To: t}
}

// Validate checks both bounds are dates and From is not after To.
func (w Window) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("invalid window %s..%s: %w", w.From, w.To, err)
	}
	if w.From > w.To {
		return fmt.Errorf("invalid window %s..%s: start after end", w.From, w.To)
	}
	return nil
}

// ConnectionsQuery selects TGV Max eligible connections travelling within w.
func ConnectionsQuery(w Window) (Query, error) {
	if err := w.Validate(); err != nil {
		return Query{}, err
	}
	return Query{
		Select: connectionSelect,
		Where:  fmt.Sprintf(`date >= "%s" and date <= "%s" and od_happy_card = "OUI"`, w.From, w.To),
	}, nil
}
