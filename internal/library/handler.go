package library

import (
	"net/http"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	service *Service
}

func NewLibraryHandler(s *Service) *LibraryHandler {
	return &LibraryHandler{
		service: s,
	}
}

func (h *LibraryHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/user")
	group.GET("/profile", h.ProfileHandler)
	group.GET("/top-tracks", h.TopTracksHandler)
	group.GET("/top-artists", h.TopArtistsHandler)
	group.GET("/recently-played", h.RecentlyPlayedHandler)
	group.GET("/saved-tracks", h.SavedTracksHandler)
	group.GET("/playlists", h.PlaylistsHandler)
	group.GET("/audio-features", h.AudioFeaturesHandler)
	group.GET("/track/:track_id", h.TrackHandler)
	group.GET("/artist/:artist_id", h.ArtistHandler)
}

// ProfileHandler godoc
// @Summary      Spotify profile
// @Tags         user
// @Produce      json
// @Success      200 {object} Envelope
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/profile [get]
func (h *LibraryHandler) ProfileHandler(c *gin.Context) {
	resp, err := h.service.Profile(c.Request.Context(), session.Read(c))
	respond(c, resp, err)
}

// TopTracksHandler godoc
// @Summary      Top tracks
// @Tags         user
// @Produce      json
// @Param        time_range query string false "short_term, medium_term or long_term" default(medium_term)
// @Param        limit      query int    false "1-50" default(20)
// @Param        offset     query int    false "Index of the first item" default(0)
// @Success      200 {object} RankedEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/top-tracks [get]
func (h *LibraryHandler) TopTracksHandler(c *gin.Context) {
	q, err := ParseRankQuery(c.Query("time_range"), c.Query("limit"), c.Query("offset"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.TopTracks(c.Request.Context(), session.Read(c), q)
	respond(c, resp, err)
}

// TopArtistsHandler godoc
// @Summary      Top artists
// @Tags         user
// @Produce      json
// @Param        time_range query string false "short_term, medium_term or long_term" default(medium_term)
// @Param        limit      query int    false "1-50" default(20)
// @Param        offset     query int    false "Index of the first item" default(0)
// @Success      200 {object} RankedEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/top-artists [get]
func (h *LibraryHandler) TopArtistsHandler(c *gin.Context) {
	q, err := ParseRankQuery(c.Query("time_range"), c.Query("limit"), c.Query("offset"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.TopArtists(c.Request.Context(), session.Read(c), q)
	respond(c, resp, err)
}

// RecentlyPlayedHandler godoc
// @Summary      Recently played tracks
// @Tags         user
// @Produce      json
// @Param        limit  query int false "1-50" default(20)
// @Param        after  query int false "Unix ms, items played after"
// @Param        before query int false "Unix ms, items played before"
// @Success      200 {object} HistoryEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/recently-played [get]
func (h *LibraryHandler) RecentlyPlayedHandler(c *gin.Context) {
	q, err := ParseHistoryQuery(c.Query("limit"), c.Query("after"), c.Query("before"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.RecentlyPlayed(c.Request.Context(), session.Read(c), q)
	respond(c, resp, err)
}

// SavedTracksHandler godoc
// @Summary      Liked songs
// @Tags         user
// @Produce      json
// @Param        limit  query int false "1-50" default(20)
// @Param        offset query int false "Index of the first item" default(0)
// @Success      200 {object} PageEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/saved-tracks [get]
func (h *LibraryHandler) SavedTracksHandler(c *gin.Context) {
	q, err := ParsePageQuery(c.Query("limit"), c.Query("offset"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.SavedTracks(c.Request.Context(), session.Read(c), q)
	respond(c, resp, err)
}

// PlaylistsHandler godoc
// @Summary      User playlists
// @Tags         user
// @Produce      json
// @Param        limit  query int false "1-50" default(20)
// @Param        offset query int false "Index of the first item" default(0)
// @Success      200 {object} PageEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/playlists [get]
func (h *LibraryHandler) PlaylistsHandler(c *gin.Context) {
	q, err := ParsePageQuery(c.Query("limit"), c.Query("offset"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.Playlists(c.Request.Context(), session.Read(c), q)
	respond(c, resp, err)
}

// AudioFeaturesHandler godoc
// @Summary      Audio features
// @Tags         user
// @Produce      json
// @Param        track_ids query string true "Comma separated track ids, at most 100"
// @Success      200 {object} FeaturesEnvelope
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/audio-features [get]
func (h *LibraryHandler) AudioFeaturesHandler(c *gin.Context) {
	ids, err := ParseTrackIDs(c.Query("track_ids"))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	resp, err := h.service.AudioFeatures(c.Request.Context(), session.Read(c), ids)
	respond(c, resp, err)
}

// TrackHandler godoc
// @Summary      Track by id
// @Tags         user
// @Produce      json
// @Param        track_id path string true "Spotify track id"
// @Success      200 {object} Envelope
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/track/{track_id} [get]
func (h *LibraryHandler) TrackHandler(c *gin.Context) {
	resp, err := h.service.Track(c.Request.Context(), session.Read(c), c.Param("track_id"))
	respond(c, resp, err)
}

// ArtistHandler godoc
// @Summary      Artist by id
// @Tags         user
// @Produce      json
// @Param        artist_id path string true "Spotify artist id"
// @Success      200 {object} Envelope
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/user/artist/{artist_id} [get]
func (h *LibraryHandler) ArtistHandler(c *gin.Context) {
	resp, err := h.service.Artist(c.Request.Context(), session.Read(c), c.Param("artist_id"))
	respond(c, resp, err)
}

func respond(c *gin.Context, resp any, err error) {
	if err != nil {
		apperror.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
