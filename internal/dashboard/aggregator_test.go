package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/simplyzetax/selva/internal/upstream"
)

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]*upstream.Response
	failures  map[string]error
	calls     map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: map[string]*upstream.Response{},
		failures:  map[string]error{},
		calls:     map[string]int{},
	}
}

func (f *fakeFetcher) reply(path string, status int, body string) {
	f.responses[path] = &upstream.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}
}

func (f *fakeFetcher) Get(_ context.Context, path, _ string) (*upstream.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	if err, ok := f.failures[path]; ok {
		return nil, err
	}
	if resp, ok := f.responses[path]; ok {
		return resp, nil
	}
	return &upstream.Response{StatusCode: http.StatusNotFound}, nil
}

type countingObserver struct {
	hits, misses int
}

func (c *countingObserver) CacheHit(string)  { c.hits++ }
func (c *countingObserver) CacheMiss(string) { c.misses++ }

func asuncion(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Asuncion")
	require.NoError(t, err)
	return loc
}

func newAggregator(t *testing.T, f Fetcher, obs CacheObserver) *Aggregator {
	return New(f, Options{
		CacheSize: 16,
		CacheTTL:  time.Hour,
		Location:  asuncion(t),
		Observer:  obs,
	})
}

const casesBody = `{"items": [
	{"id": 1, "code": "G-1", "case_type": "GOODS", "state": "OPEN", "title": "iPhone", "customer_id": 7, "updated_at": "2025-11-06T02:30:00Z"},
	{"id": 2, "code": "G-2", "case_type": "GOODS", "state": "QUOTED", "customer_id": 7, "created_at": "2025-11-05 12:00:00"},
	{"id": 3, "type": "REMIT", "state": "OPEN", "customer_id": 8},
	{"id": 4, "customer": {"name": "Embebido"}},
	{"id": 5, "case_type": "GOODS", "customer_nombre": "Legacy"}
]}`

func TestBuildGroupsAndCounts(t *testing.T) {
	f := newFakeFetcher()
	f.reply(casesPath, 200, casesBody)
	f.reply(slaBreachesPath, 200, `{"items": [{"case_id": 1}, {"case_id": 3}]}`)
	f.reply("/api/customers/7", 200, `{"id": 7, "name": "Acme SA"}`)
	f.reply("/api/customers/8", 200, `{"customer": {"id": 8, "name": "Yerba Mate SRL"}}`)

	view := newAggregator(t, f, nil).Build(context.Background(), "tok")

	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 2, view.SLA)
	assert.Equal(t, map[string]int{"OPEN": 2, "QUOTED": 1, "—": 2}, view.ByState)
	assert.Equal(t, StateCount{State: "OPEN", Count: 2}, view.States[0])

	require.Len(t, view.Groups, 3)
	assert.Equal(t, "GOODS", view.Groups[0].CaseType)
	assert.Len(t, view.Groups[0].Cases, 3)
	assert.Equal(t, "REMIT", view.Groups[1].CaseType)
	assert.Equal(t, "Otros", view.Groups[2].CaseType)

	goods := view.Groups[0].Cases
	assert.Equal(t, "Acme SA", goods[0].CustomerName)
	assert.Equal(t, "iPhone", goods[0].Title)
	assert.Equal(t, "open", goods[0].StateLower)
	// 02:30 UTC is still the 5th in Asuncion (UTC-3)
	assert.Equal(t, "05/11/2025", goods[0].UpdatedAtDisplay)
	assert.Equal(t, "G-2", goods[1].Title)
	assert.Equal(t, "2025-11-05 12:00:00", goods[1].UpdatedAt)
	assert.Equal(t, "05/11/2025", goods[1].UpdatedAtDisplay)
	assert.Equal(t, "Legacy", goods[2].CustomerName)
	assert.Equal(t, "—", goods[2].State)

	remit := view.Groups[1].Cases[0]
	assert.Equal(t, "Yerba Mate SRL", remit.CustomerName)
	assert.Equal(t, "Caso #3", remit.Title)

	other := view.Groups[2].Cases[0]
	assert.Equal(t, "Embebido", other.CustomerName)

	// customer 7 appears twice but is looked up once
	assert.Equal(t, 1, f.calls["/api/customers/7"])
}

func TestBuildDegradesToEmptyLists(t *testing.T) {
	f := newFakeFetcher()
	f.failures[casesPath] = errors.New("connection refused")
	f.reply(slaBreachesPath, 500, `{"detail": "boom"}`)

	view := newAggregator(t, f, nil).Build(context.Background(), "")

	assert.Equal(t, 0, view.Total)
	assert.Equal(t, 0, view.SLA)
	assert.Empty(t, view.Groups)
	assert.Equal(t, 1, f.calls[slaBreachesPath])
}

func TestBuildIgnoresUndecodableList(t *testing.T) {
	f := newFakeFetcher()
	f.reply(casesPath, 200, `<html>`)

	view := newAggregator(t, f, nil).Build(context.Background(), "")

	assert.Equal(t, 0, view.Total)
}

func TestBuildToleratesOddFields(t *testing.T) {
	f := newFakeFetcher()
	f.reply(casesPath, 200, `{"items": [
		{"id": 1, "case_type": "GOODS", "customer_id": 3},
		{"id": 2, "case_type": "GOODS", "customer": "Juan"},
		"not a case",
		{"id": 3, "customer_id": "4"},
		{"id": "5", "state": 7, "customer": {"name": 12}}
	]}`)
	f.reply("/api/customers/3", 200, `{"name": "Ana"}`)
	f.reply("/api/customers/4", 200, `{"customer": {"id": 4, "name": "Beto"}}`)

	view := newAggregator(t, f, nil).Build(context.Background(), "")

	assert.Equal(t, 4, view.Total)
	require.Len(t, view.Groups, 2)

	goods := view.Groups[0]
	assert.Equal(t, "GOODS", goods.CaseType)
	require.Len(t, goods.Cases, 2)
	assert.Equal(t, "Ana", goods.Cases[0].CustomerName)
	assert.Equal(t, "—", goods.Cases[1].CustomerName)

	other := view.Groups[1]
	assert.Equal(t, defaultCaseType, other.CaseType)
	require.Len(t, other.Cases, 2)
	assert.Equal(t, "Beto", other.Cases[0].CustomerName)
	assert.Equal(t, int64(5), other.Cases[1].ID)
	assert.Equal(t, "7", other.Cases[1].State)
	assert.Equal(t, "12", other.Cases[1].CustomerName)
}

func TestCustomerNamePlaceholders(t *testing.T) {
	f := newFakeFetcher()
	f.reply("/api/customers/1", 200, `{"id": 1, "name": ""}`)
	f.failures["/api/customers/2"] = errors.New("timeout")
	f.reply("/api/customers/3", 403, `{"detail": "forbidden"}`)
	f.reply("/api/customers/4", 200, `<html>`)

	a := newAggregator(t, f, nil)
	for id := int64(1); id <= 4; id++ {
		assert.Equal(t, customerPlaceholder(id), a.CustomerName(context.Background(), "", id))
	}
}

func TestCustomerNameIsCached(t *testing.T) {
	f := newFakeFetcher()
	f.reply("/api/customers/7", 200, `{"name": "Acme SA"}`)
	f.failures["/api/customers/9"] = errors.New("timeout")
	obs := &countingObserver{}

	a := newAggregator(t, f, obs)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Acme SA", a.CustomerName(context.Background(), "", 7))
		assert.Equal(t, "Cliente #9", a.CustomerName(context.Background(), "", 9))
	}

	assert.Equal(t, 1, f.calls["/api/customers/7"])
	assert.Equal(t, 1, f.calls["/api/customers/9"])
	assert.Equal(t, 2, obs.misses)
	assert.Equal(t, 4, obs.hits)
}

func TestCustomerNameRefetchedAfterTTL(t *testing.T) {
	f := newFakeFetcher()
	f.reply("/api/customers/7", 200, `{"name": "Acme SA"}`)
	now := time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)

	a := New(f, Options{
		CacheSize: 4,
		CacheTTL:  time.Hour,
		Clock:     func() time.Time { return now },
	})

	a.CustomerName(context.Background(), "", 7)
	now = now.Add(30 * time.Minute)
	a.CustomerName(context.Background(), "", 7)
	assert.Equal(t, 1, f.calls["/api/customers/7"])

	now = now.Add(time.Hour)
	a.CustomerName(context.Background(), "", 7)
	assert.Equal(t, 2, f.calls["/api/customers/7"])
}

func TestBuildAgainstUpstreamClient(t *testing.T) {
	defer gock.Off()
	const base = "http://upstream.test"

	gock.New(base).
		Get(casesPath).
		MatchHeader("Authorization", "^Bearer tok$").
		Reply(200).
		JSON(map[string]any{"items": []map[string]any{
			{"id": 1, "case_type": "GOODS", "state": "OPEN", "customer_id": 7},
		}})
	gock.New(base).
		Get(slaBreachesPath).
		Reply(200).
		JSON(map[string]any{"items": []any{}})
	gock.New(base).
		Get("/api/customers/7").
		Times(1).
		Reply(200).
		JSON(map[string]any{"id": 7, "name": "Acme SA"})

	client := upstream.New(base, time.Second, time.Second)
	a := newAggregator(t, client, nil)

	view := a.Build(context.Background(), "tok")
	require.Len(t, view.Groups, 1)
	assert.Equal(t, "Acme SA", view.Groups[0].Cases[0].CustomerName)
	assert.True(t, gock.IsDone())

	assert.Equal(t, "Acme SA", a.CustomerName(context.Background(), "tok", 7))
}
