// Package dashboard builds the home page summary from the case list, the SLA
// breach list and customer lookups.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simplyzetax/selva/internal/cache"
	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/upstream"
)

const (
	casesPath       = "/api/cases"
	slaBreachesPath = "/api/cases/sla-breaches"
	customerPath    = "/api/customers/%d"

	customerCacheName = "customers"
	defaultCaseType   = "Otros"
	emptyValue        = "—"
)

// Fetcher is the part of the upstream client the aggregator needs
type Fetcher interface {
	Get(ctx context.Context, path, token string) (*upstream.Response, error)
}

// CacheObserver is notified of customer cache hits and misses
type CacheObserver interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// Options configures an Aggregator
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Location  *time.Location
	Clock     cache.Clock
	Observer  CacheObserver
}

// Aggregator owns the customer-name cache; one instance is shared by all dashboard requests.
type Aggregator struct {
	client   Fetcher
	names    *cache.LRU[int64, string]
	loc      *time.Location
	observer CacheObserver
}

// CaseView is a case normalized for display
type CaseView struct {
	ID               int64
	Code             string
	CaseType         string
	State            string
	StateLower       string
	Title            string
	UpdatedAt        string
	UpdatedAtDisplay string
	CustomerName     string
}

// Group holds the cases of one case type
type Group struct {
	CaseType string
	Cases    []CaseView
}

// StateCount is the number of cases in one state
type StateCount struct {
	State string
	Count int
}

// View is everything the dashboard template renders
type View struct {
	Total   int
	SLA     int
	ByState map[string]int
	States  []StateCount
	Groups  []Group
}

// New creates an aggregator reading through client
func New(client Fetcher, opts Options) *Aggregator {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		client:   client,
		names:    cache.New[int64, string](opts.CacheSize, opts.CacheTTL, opts.Clock),
		loc:      loc,
		observer: opts.Observer,
	}
}

// Build fetches cases and SLA breaches one after the other and summarizes them.
// Failed calls degrade to empty lists.
func (a *Aggregator) Build(ctx context.Context, token string) View {
	cases := fetchList[models.CaseList](ctx, a.client, casesPath, token)
	breaches := fetchList[models.SLABreachList](ctx, a.client, slaBreachesPath, token)

	names := a.resolveCustomers(ctx, token, cases.Items)

	view := View{
		Total:   len(cases.Items),
		SLA:     len(breaches.Items),
		ByState: map[string]int{},
	}

	groups := map[string]*Group{}
	var order []string
	for _, c := range cases.Items {
		cv := a.normalize(c, names)

		view.ByState[cv.State]++

		g, ok := groups[cv.CaseType]
		if !ok {
			g = &Group{CaseType: cv.CaseType}
			groups[cv.CaseType] = g
			order = append(order, cv.CaseType)
		}
		g.Cases = append(g.Cases, cv)
	}

	for _, t := range order {
		view.Groups = append(view.Groups, *groups[t])
	}
	sort.SliceStable(view.Groups, func(i, j int) bool {
		return len(view.Groups[i].Cases) > len(view.Groups[j].Cases)
	})

	for state, n := range view.ByState {
		view.States = append(view.States, StateCount{State: state, Count: n})
	}
	sort.Slice(view.States, func(i, j int) bool {
		if view.States[i].Count != view.States[j].Count {
			return view.States[i].Count > view.States[j].Count
		}
		return view.States[i].State < view.States[j].State
	})

	return view
}

// CustomerName returns the display name for id, consulting the cache first.
// Lookup failures yield the "Cliente #id" placeholder, which is cached too.
func (a *Aggregator) CustomerName(ctx context.Context, token string, id int64) string {
	if name, ok := a.names.Get(id); ok {
		a.hit()
		return name
	}
	a.miss()

	name := a.fetchCustomerName(ctx, token, id)
	a.names.Add(id, name)
	return name
}

func (a *Aggregator) fetchCustomerName(ctx context.Context, token string, id int64) string {
	placeholder := customerPlaceholder(id)

	resp, err := a.client.Get(ctx, fmt.Sprintf(customerPath, id), token)
	if err != nil {
		log.Warnf("Customer %d lookup failed: %v", id, err)
		return placeholder
	}
	log.Debugf("Customer %d lookup -> %d", id, resp.StatusCode)
	if !resp.OK() {
		return placeholder
	}

	var customer models.Customer
	if err := resp.Decode(&customer); err != nil {
		log.Warnf("Customer %d: %v", id, err)
		return placeholder
	}
	if name := strings.TrimSpace(customer.DisplayName()); name != "" {
		return name
	}
	return placeholder
}

func (a *Aggregator) resolveCustomers(ctx context.Context, token string, items []models.Case) map[int64]string {
	names := map[int64]string{}
	for _, c := range items {
		if c.CustomerID == 0 {
			continue
		}
		if _, seen := names[c.CustomerID]; seen {
			continue
		}
		names[c.CustomerID] = a.CustomerName(ctx, token, c.CustomerID)
	}
	return names
}

func fetchList[T any](ctx context.Context, client Fetcher, path, token string) T {
	var out T

	resp, err := client.Get(ctx, path, token)
	if err != nil {
		log.Warnf("Dashboard: %s unavailable: %v", path, err)
		return out
	}
	if !resp.OK() {
		log.Warnf("Dashboard: %s answered %d", path, resp.StatusCode)
		return out
	}
	if err := resp.Decode(&out); err != nil {
		log.Warnf("Dashboard: %v", err)
		var empty T
		return empty
	}
	return out
}

func (a *Aggregator) normalize(c models.Case, names map[int64]string) CaseView {
	state := firstNonEmpty(c.State, emptyValue)
	updated := firstNonEmpty(c.UpdatedAt, c.CreatedAt)

	return CaseView{
		ID:               c.ID,
		Code:             c.Code,
		CaseType:         firstNonEmpty(c.CaseType, c.Type, defaultCaseType),
		State:            state,
		StateLower:       strings.ToLower(state),
		Title:            firstNonEmpty(c.Title, c.Code, fmt.Sprintf("Caso #%d", c.ID)),
		UpdatedAt:        updated,
		UpdatedAtDisplay: FormatDay(updated, a.loc),
		CustomerName:     customerName(c, names),
	}
}

func customerName(c models.Case, names map[int64]string) string {
	embedded := ""
	if c.Customer != nil {
		embedded = c.Customer.Name
	}
	fallback := emptyValue
	if c.CustomerID != 0 {
		fallback = customerPlaceholder(c.CustomerID)
	}
	return firstNonEmpty(names[c.CustomerID], embedded, c.CustomerNombre, fallback)
}

func customerPlaceholder(id int64) string {
	return fmt.Sprintf("Cliente #%d", id)
}

func (a *Aggregator) hit() {
	if a.observer != nil {
		a.observer.CacheHit(customerCacheName)
	}
}

func (a *Aggregator) miss() {
	if a.observer != nil {
		a.observer.CacheMiss(customerCacheName)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
