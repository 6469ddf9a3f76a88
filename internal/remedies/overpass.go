package remedies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/geo"
)

// Store is a nearby agro-supply shop resolved from OpenStreetMap data.
type Store struct {
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distanceKm"`
}

// StoreFinder queries Overpass mirrors for agrarian shops around a point.
type StoreFinder struct {
	urls    []string
	radiusM int
	client  *http.Client
	maxHits int
}

func NewStoreFinder(urls []string, radiusM int) *StoreFinder {
	if radiusM <= 0 {
		radiusM = 15000
	}
	return &StoreFinder{
		urls:    urls,
		radiusM: radiusM,
		client:  &http.Client{Timeout: 12 * time.Second},
		maxHits: 3,
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (f *StoreFinder) query(lat, lng float64) string {
	return fmt.Sprintf(`[out:json][timeout:10];
(
  node["shop"="agrarian"](around:%d,%f,%f);
  way["shop"="agrarian"](around:%d,%f,%f);
  node["shop"="farm"](around:%d,%f,%f);
  node["shop"="garden_centre"](around:%d,%f,%f);
);
out center;`,
		f.radiusM, lat, lng,
		f.radiusM, lat, lng,
		f.radiusM, lat, lng,
		f.radiusM, lat, lng)
}

// Nearby returns up to three stores closest to the point. Mirrors are tried
// in order until one answers.
func (f *StoreFinder) Nearby(ctx context.Context, lat, lng float64) ([]Store, error) {
	body := url.Values{"data": {f.query(lat, lng)}}.Encode()

	var lastErr error
	for _, endpoint := range f.urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			lastErr = fmt.Errorf("overpass %s: status %d", endpoint, resp.StatusCode)
			continue
		}

		var parsed overpassResponse
		err = json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("overpass %s: decode: %w", endpoint, err)
			continue
		}
		return f.rank(parsed.Elements, lat, lng), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no overpass mirrors configured")
	}
	return nil, lastErr
}

func (f *StoreFinder) rank(elements []overpassElement, lat, lng float64) []Store {
	stores := make([]Store, 0, len(elements))
	for _, el := range elements {
		elat, elng := el.Lat, el.Lon
		if el.Center != nil {
			elat, elng = el.Center.Lat, el.Center.Lon
		}
		if elat == 0 && elng == 0 {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = "Agro supply store"
		}
		stores = append(stores, Store{
			Name:       name,
			Address:    buildAddress(el.Tags),
			Phone:      firstNonEmpty(el.Tags["phone"], el.Tags["contact:phone"]),
			Latitude:   elat,
			Longitude:  elng,
			DistanceKm: geo.RoundKm(geo.HaversineKm(lat, lng, elat, elng)),
		})
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].DistanceKm < stores[j].DistanceKm })
	if len(stores) > f.maxHits {
		stores = stores[:f.maxHits]
	}
	return stores
}

func buildAddress(tags map[string]string) string {
	parts := []string{}
	for _, k := range []string{"addr:housenumber", "addr:street", "addr:city", "addr:postcode"} {
		if v := tags[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
