package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Paging[T any] struct {
	Href   string `json:"href"`
	Items  []T    `json:"items"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Total  int    `json:"total"`
}

type PlayHistory struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

var validRanges = map[string]int{"short_term": 0, "medium_term": 1, "long_term": 2}

func withBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "+accessPrefix) {
			apiError(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		delay := 50 + rand.Intn(51) // 50 to 100ms
		time.Sleep(time.Duration(delay) * time.Millisecond)

		next(w, r)
	}
}

func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"id":            "mockuser",
		"display_name":  "Mock User",
		"email":         "mock.user@example.com",
		"country":       "ID",
		"product":       "premium",
		"type":          "user",
		"uri":           "spotify:user:mockuser",
		"images":        []Image{{URL: "https://i.scdn.co/image/mockuser", Height: 300, Width: 300}},
		"followers":     Followers{Total: 42},
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/user/mockuser"},
	})
}

func TopTracksHandler(w http.ResponseWriter, r *http.Request) {
	shift, ok := timeRangeShift(w, r)
	if !ok {
		return
	}
	writePage(w, r, rotate(tracks, shift*5))
}

func TopArtistsHandler(w http.ResponseWriter, r *http.Request) {
	shift, ok := timeRangeShift(w, r)
	if !ok {
		return
	}
	writePage(w, r, rotate(artists, shift*2))
}

func SavedTracksHandler(w http.ResponseWriter, r *http.Request) {
	saved := make([]SavedTrack, len(tracks))
	for i, t := range tracks {
		saved[i] = SavedTrack{AddedAt: playedAt(i * 90).Format(time.RFC3339), Track: t}
	}
	writePage(w, r, saved)
}

func PlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, lists)
}

// RecentlyPlayedHandler serves a cursor page. before wins over after, the
// real API rejects requests carrying both.
func RecentlyPlayedHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := pageParam(w, q.Get("limit"), 20, 1, 50, "limit")
	if !ok {
		return
	}
	if q.Get("after") != "" && q.Get("before") != "" {
		apiError(w, http.StatusBadRequest, "Only one of after or before may be specified")
		return
	}

	var history []PlayHistory
	for i, t := range tracks {
		history = append(history, PlayHistory{Track: t, PlayedAt: playedAt(i).Format(time.RFC3339)})
	}

	items := make([]PlayHistory, 0, limit)
	for _, h := range history {
		at, _ := time.Parse(time.RFC3339, h.PlayedAt)
		ms := at.UnixMilli()
		if before := q.Get("before"); before != "" && ms >= atoi64(before) {
			continue
		}
		if after := q.Get("after"); after != "" && ms <= atoi64(after) {
			continue
		}
		items = append(items, h)
		if len(items) == limit {
			break
		}
	}

	resp := map[string]any{
		"href":  r.URL.String(),
		"items": items,
		"limit": limit,
	}
	if len(items) > 0 {
		first, _ := time.Parse(time.RFC3339, items[0].PlayedAt)
		last, _ := time.Parse(time.RFC3339, items[len(items)-1].PlayedAt)
		resp["cursors"] = map[string]string{
			"after":  strconv.FormatInt(first.UnixMilli(), 10),
			"before": strconv.FormatInt(last.UnixMilli(), 10),
		}
	}
	writeJSON(w, resp)
}

// AudioFeaturesHandler keeps the request order; unknown ids are null.
func AudioFeaturesHandler(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	if len(ids) > 100 {
		apiError(w, http.StatusBadRequest, "Too many ids requested")
		return
	}

	out := make([]*AudioFeatures, len(ids))
	for i, id := range ids {
		if f, ok := features[id]; ok {
			out[i] = &f
		}
	}
	writeJSON(w, map[string]any{"audio_features": out})
}

func TrackHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/tracks/")
	for _, t := range tracks {
		if t.ID == id {
			writeJSON(w, t)
			return
		}
	}
	apiError(w, http.StatusNotFound, "Non existing id: 'spotify:track:"+id+"'")
}

func ArtistHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/artists/")
	for _, a := range artists {
		if a.ID == id {
			writeJSON(w, a)
			return
		}
	}
	apiError(w, http.StatusNotFound, "Non existing id: 'spotify:artist:"+id+"'")
}

func timeRangeShift(w http.ResponseWriter, r *http.Request) (int, bool) {
	tr := r.URL.Query().Get("time_range")
	if tr == "" {
		tr = "medium_term"
	}
	shift, ok := validRanges[tr]
	if !ok {
		apiError(w, http.StatusBadRequest, "Invalid time range")
	}
	return shift, ok
}

func writePage[T any](w http.ResponseWriter, r *http.Request, all []T) {
	q := r.URL.Query()
	limit, ok := pageParam(w, q.Get("limit"), 20, 1, 50, "limit")
	if !ok {
		return
	}
	offset, ok := pageParam(w, q.Get("offset"), 0, 0, 100_000, "offset")
	if !ok {
		return
	}

	items := []T{}
	if offset < len(all) {
		end := min(offset+limit, len(all))
		items = all[offset:end]
	}

	writeJSON(w, Paging[T]{
		Href:   r.URL.String(),
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  len(all),
	})
}

func pageParam(w http.ResponseWriter, raw string, fallback, lo, hi int, name string) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		apiError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func rotate[T any](s []T, n int) []T {
	if len(s) == 0 {
		return s
	}
	n %= len(s)
	return append(append([]T{}, s[n:]...), s[:n]...)
}

func atoi64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"status": status, "message": message},
	})
}
