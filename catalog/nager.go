package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/warp/holiday-countdown/countdown"
)

// DefaultNagerBaseURL is the public Nager.Date API.
const DefaultNagerBaseURL = "https://date.nager.at"

// NagerSource reads public holidays from the Nager.Date API
// (GET /api/v3/publicholidays/{year}/{country}).
type NagerSource struct {
	BaseURL string
	Year    int
	Country string // ISO 3166-1 alpha-2
	Client  *http.Client
}

// NewNagerSource returns a source for the given year and country using the
// public API and a client with a 10 second timeout.
func NewNagerSource(year int, country string) *NagerSource {
	return &NagerSource{
		BaseURL: DefaultNagerBaseURL,
		Year:    year,
		Country: country,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Holidays fetches the holiday list in the order the API returns it.
func (s *NagerSource) Holidays(ctx context.Context) ([]countdown.HolidayEntry, error) {
	endpoint, err := url.JoinPath(s.BaseURL, "api", "v3", "publicholidays", strconv.Itoa(s.Year), s.Country)
	if err != nil {
		return nil, fmt.Errorf("invalid nager base url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch holidays: %s: %s", resp.Status, body)
	}

	var items []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	entries := make([]countdown.HolidayEntry, 0, len(items))
	for _, item := range items {
		date, err := countdown.ParseDate(item.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", item.Name, err)
		}
		name := item.Name
		if name == "" {
			name = item.LocalName
		}
		entries = append(entries, countdown.HolidayEntry{Name: name, Date: date})
	}
	return entries, nil
}
