// Package places is a small client for the Google Places Web Service: text
// search and place details.
package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/pkg/errors"
)

// Lookup is what the services need from a places provider.
type Lookup interface {
	SearchCampgrounds(ctx context.Context, query string) ([]Place, error)
	GetPlaceDetails(ctx context.Context, placeID string) (*Place, error)
}

// ErrStatus is returned, wrapped, whenever the API answers with a status
// other than OK.
var ErrStatus = errors.New("places request failed")

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location *Location `json:"location"`
}

// Place is the subset of the Places result shape CampJournal uses.
type Place struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	FormattedAddress string    `json:"formatted_address"`
	Geometry         *Geometry `json:"geometry,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	Phone            string    `json:"formatted_phone_number,omitempty"`
	Website          string    `json:"website,omitempty"`
	URL              string    `json:"url,omitempty"`
}

// Campground converts place details into the fields stored for a
// campground. City, state and country are the last three comma-separated
// parts of the formatted address.
func (p *Place) Campground() *models.Campground {
	c := &models.Campground{
		GooglePlaceID: p.PlaceID,
		Name:          p.Name,
		GoogleRating:  p.Rating,
		Address:       nonEmpty(p.FormattedAddress),
		Phone:         nonEmpty(p.Phone),
		Website:       nonEmpty(p.Website),
		GoogleMapsURL: nonEmpty(p.URL),
	}
	if c.Name == "" {
		c.Name = "Unknown"
	}
	if p.Geometry != nil && p.Geometry.Location != nil {
		lat, lng := p.Geometry.Location.Lat, p.Geometry.Location.Lng
		c.Latitude, c.Longitude = &lat, &lng
	}

	parts := strings.Split(p.FormattedAddress, ", ")
	at := func(fromEnd int) *string {
		i := len(parts) - fromEnd
		if i < 0 {
			return nil
		}
		return nonEmpty(parts[i])
	}
	c.City, c.State, c.Country = at(3), at(2), at(1)

	return c
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var detailFields = strings.Join([]string{
	"place_id", "name", "formatted_address", "geometry", "rating",
	"formatted_phone_number", "website", "url",
}, ",")

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
}

func New(funcs ...OptionFunc) *Client {
	opts := NewOptions(funcs...)
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		apiKey:     opts.APIKey,
	}
}

type searchResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
}

type detailsResponse struct {
	Result       *Place `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// SearchCampgrounds runs a text search biased towards campgrounds and RV
// parks.
func (c *Client) SearchCampgrounds(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("query", query+" campground OR RV park")

	var res searchResponse
	if err := c.get(ctx, "textsearch/json", params, &res); err != nil {
		return nil, errors.WithStack(err)
	}
	if res.Status != "OK" {
		return nil, errors.Wrapf(ErrStatus, "search failed with status: %s %s", res.Status, res.ErrorMessage)
	}
	return res.Results, nil
}

func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	var res detailsResponse
	if err := c.get(ctx, "details/json", params, &res); err != nil {
		return nil, errors.WithStack(err)
	}
	if res.Status != "OK" || res.Result == nil {
		return nil, errors.Wrapf(ErrStatus, "place details failed with status: %s %s", res.Status, res.ErrorMessage)
	}
	return res.Result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u := c.baseURL.JoinPath(path)
	params.Set("key", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("unexpected response code %d (%s)", res.StatusCode, res.Status)
	}

	if err := json.NewDecoder(res.Body).Decode(result); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
