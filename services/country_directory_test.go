package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"olymp-registration-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpstream() *UpstreamClient {
	return NewUpstreamClient(&config.Config{APIAuthToken: "test-token", UpstreamTimeout: 5 * time.Second})
}

func countryNames(t *testing.T, d *CountryDirectory) []string {
	t.Helper()
	countries, err := d.FetchCountries(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		names = append(names, c.Name)
	}
	return names
}

// paginatedServer sert trois pages de 2, 2 et 1 pays ; failPage renvoie une 500 sur cette page
func paginatedServer(t *testing.T, failPage string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("page")
		if page == failPage {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "":
			fmt.Fprintf(w, `{"count":5,"next":"%s/countries/?page=2","previous":null,"results":[{"id":3,"name":"Uzbekistan"},{"id":1,"name":"Kazakhstan"}]}`, srv.URL)
		case "2":
			fmt.Fprintf(w, `{"count":5,"next":"%s/countries/?page=3","previous":null,"results":[{"id":5,"name":"Azerbaijan"},{"id":2,"name":"Tajikistan"}]}`, srv.URL)
		case "3":
			fmt.Fprint(w, `{"count":5,"next":null,"previous":null,"results":[{"id":4,"name":"Kyrgyzstan"}]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchCountriesAggregatesPages(t *testing.T) {
	srv, hits := paginatedServer(t, "none")
	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", 0)

	names := countryNames(t, d)
	assert.Equal(t, []string{"Azerbaijan", "Kazakhstan", "Kyrgyzstan", "Tajikistan", "Uzbekistan"}, names)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestFetchCountriesPartialOnPageFailure(t *testing.T) {
	srv, _ := paginatedServer(t, "2")
	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", time.Minute)

	names := countryNames(t, d)
	assert.Equal(t, []string{"Kazakhstan", "Uzbekistan"}, names)
}

func TestFetchCountriesPartialResultNotCached(t *testing.T) {
	srv, hits := paginatedServer(t, "2")
	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", time.Minute)

	countryNames(t, d)
	countryNames(t, d)
	assert.Equal(t, int32(4), atomic.LoadInt32(hits))
}

func TestFetchCountriesCached(t *testing.T) {
	srv, hits := paginatedServer(t, "none")
	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", time.Minute)

	first := countryNames(t, d)
	second := countryNames(t, d)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))

	d.Invalidate()
	countryNames(t, d)
	assert.Equal(t, int32(6), atomic.LoadInt32(hits))
}

func TestFetchCountriesFirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", 0)
	_, err := d.FetchCountries(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
	assert.Equal(t, "Failed to fetch countries: 503 Service Unavailable", fetchErr.Message)
}

func TestFetchCountriesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := NewCountryDirectory(newTestUpstream(), url+"/countries/", "en", 0)
	_, err := d.FetchCountries(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusBadGateway, fetchErr.Status)
}

func TestFetchCountriesResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"tableau brut", `[{"id":2,"name":"Turkey"},{"id":1,"name":"Armenia"}]`, []string{"Armenia", "Turkey"}},
		{"enveloppe data", `{"data":[{"id":1,"name":"Georgia"}]}`, []string{"Georgia"}},
		{"enveloppe paginée vide", `{"count":0,"next":null,"results":[]}`, []string{}},
		{"structure inattendue", `{"detail":"ok"}`, []string{}},
		{"json invalide", `<html>`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", 0)
			assert.Equal(t, tt.want, countryNames(t, d))
		})
	}
}

func TestFetchCountriesRelativeCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"next":null,"results":[{"id":2,"name":"Belarus"}]}`)
			return
		}
		fmt.Fprint(w, `{"next":"/countries/?page=2","results":[{"id":1,"name":"Mongolia"}]}`)
	}))
	defer srv.Close()

	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", 0)
	assert.Equal(t, []string{"Belarus", "Mongolia"}, countryNames(t, d))
}

func TestFetchCountriesCursorLoop(t *testing.T) {
	var hits int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprintf(w, `{"next":"%s/countries/","results":[{"id":1,"name":"Mongolia"}]}`, srv.URL)
	}))
	defer srv.Close()

	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "en", 0)
	assert.Equal(t, []string{"Mongolia"}, countryNames(t, d))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchCountriesLocaleSort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"name":"Zambia"},{"id":2,"name":"Égypte"},{"id":3,"name":"Espagne"},{"id":4,"name":"albanie"}]`)
	}))
	defer srv.Close()

	d := NewCountryDirectory(newTestUpstream(), srv.URL+"/countries/", "fr", 0)
	assert.Equal(t, []string{"albanie", "Égypte", "Espagne", "Zambia"}, countryNames(t, d))
}
