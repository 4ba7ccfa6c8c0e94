package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	http.HandleFunc("/authorize", AuthorizeHandler)
	http.HandleFunc("/api/token", TokenHandler)

	http.HandleFunc("/v1/me", withBearer(ProfileHandler))
	http.HandleFunc("/v1/me/top/tracks", withBearer(TopTracksHandler))
	http.HandleFunc("/v1/me/top/artists", withBearer(TopArtistsHandler))
	http.HandleFunc("/v1/me/player/recently-played", withBearer(RecentlyPlayedHandler))
	http.HandleFunc("/v1/me/tracks", withBearer(SavedTracksHandler))
	http.HandleFunc("/v1/me/playlists", withBearer(PlaylistsHandler))
	http.HandleFunc("/v1/audio-features", withBearer(AudioFeaturesHandler))
	http.HandleFunc("/v1/tracks/", withBearer(TrackHandler))
	http.HandleFunc("/v1/artists/", withBearer(ArtistHandler))

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock Spotify running on port %s...\n", port)
	fmt.Printf("SPOTIFY_ACCOUNTS_URL=http://127.0.0.1:%s SPOTIFY_API_URL=http://127.0.0.1:%s/v1\n", port, port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
