package main

import (
	"fmt"
	"time"
)

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type Artist struct {
	SimpleArtist
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
	Images     []Image   `json:"images"`
}

type Followers struct {
	Href  *string `json:"href"`
	Total int     `json:"total"`
}

type Album struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []Image        `json:"images"`
	Artists     []SimpleArtist `json:"artists"`
}

type Track struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	DurationMS int            `json:"duration_ms"`
	Explicit   bool           `json:"explicit"`
	Popularity int            `json:"popularity"`
	Type       string         `json:"type"`
	URI        string         `json:"uri"`
	Album      Album          `json:"album"`
	Artists    []SimpleArtist `json:"artists"`
}

type AudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	DurationMS       int     `json:"duration_ms"`
	Type             string  `json:"type"`
}

type Playlist struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Public        bool           `json:"public"`
	Collaborative bool           `json:"collaborative"`
	Owner         map[string]any `json:"owner"`
	Tracks        map[string]int `json:"tracks"`
	Images        []Image        `json:"images"`
}

var (
	artists  []Artist
	tracks   []Track
	features map[string]AudioFeatures
	lists    []Playlist
)

var genrePool = []string{"indie pop", "bedroom pop", "dream pop", "shoegaze", "city pop", "neo soul", "jazz rap"}

// init builds a small deterministic catalog.
func init() {
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("mockartist%02d", i)
		artists = append(artists, Artist{
			SimpleArtist: SimpleArtist{ID: id, Name: fmt.Sprintf("Mock Artist %d", i+1), Type: "artist", URI: "spotify:artist:" + id},
			Genres:       []string{genrePool[i%len(genrePool)], genrePool[(i+3)%len(genrePool)]},
			Popularity:   90 - i*5,
			Followers:    Followers{Total: 1_000_000 / (i + 1)},
			Images:       []Image{{URL: "https://i.scdn.co/image/" + id, Height: 640, Width: 640}},
		})
	}

	features = map[string]AudioFeatures{}
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("mocktrack%03d", i)
		artist := artists[i%len(artists)].SimpleArtist
		duration := 150_000 + (i%9)*12_000

		tracks = append(tracks, Track{
			ID:         id,
			Name:       fmt.Sprintf("Mock Song %d", i+1),
			DurationMS: duration,
			Explicit:   i%7 == 0,
			Popularity: 95 - i,
			Type:       "track",
			URI:        "spotify:track:" + id,
			Album: Album{
				ID:          fmt.Sprintf("mockalbum%02d", i/5),
				Name:        fmt.Sprintf("Mock Album %d", i/5+1),
				ReleaseDate: fmt.Sprintf("20%02d-0%d-15", 10+i%14, 1+i%9),
				Images:      []Image{{URL: "https://i.scdn.co/image/album" + id, Height: 300, Width: 300}},
				Artists:     []SimpleArtist{artist},
			},
			Artists: []SimpleArtist{artist},
		})

		features[id] = AudioFeatures{
			ID:               id,
			Danceability:     float64(i%10) / 10,
			Energy:           float64((i*3)%10) / 10,
			Valence:          float64((i*7)%10) / 10,
			Tempo:            80 + float64(i%12)*8,
			Acousticness:     float64((i*5)%10) / 10,
			Instrumentalness: float64(i%4) / 20,
			Speechiness:      float64(i%6) / 30,
			DurationMS:       duration,
			Type:             "audio_features",
		}
	}

	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("mockplaylist%d", i)
		lists = append(lists, Playlist{
			ID:     id,
			Name:   fmt.Sprintf("Mock Playlist %d", i+1),
			Public: i%2 == 0,
			Owner:  map[string]any{"id": "mockuser", "display_name": "Mock User"},
			Tracks: map[string]int{"total": 10 + i*4},
			Images: []Image{},
		})
	}
}

// playedAt spaces plays 4 minutes apart ending now.
func playedAt(i int) time.Time {
	return time.Now().UTC().Add(-time.Duration(i*4) * time.Minute).Truncate(time.Second)
}
