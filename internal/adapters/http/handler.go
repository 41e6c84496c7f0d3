package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// Handler holds the HTTP handlers for the transfer API.
type Handler struct {
	service ports.TransferService
	logger  logrus.FieldLogger
}

// NewHandler creates a new HTTP handler with the given transfer service.
func NewHandler(service ports.TransferService, logger logrus.FieldLogger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/playlists", h.ListPlaylists)
		api.GET("/playlists/:id", h.GetPlaylist)
		api.POST("/transfers", h.StartTransfer)
		api.GET("/transfers", h.ListTransfers)
		api.GET("/transfers/:id", h.GetTransfer)
		api.POST("/transfers/:id/cancel", h.CancelTransfer)
		api.DELETE("/cache/search", h.ClearSearchCache)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ListPlaylists returns playlists for the given provider and authenticated user.
//
//	@Summary		List user playlists
//	@Description	Returns all playlists for the authenticated user on the specified source provider.
//	@Description	Supported providers: spotify, youtube.
//	@Tags			playlists
//	@Produce		json
//	@Param			provider		query		string	true	"Source provider"	Enums(spotify, youtube)
//	@Param			Authorization	header		string	true	"Bearer token for the provider"
//	@Success		200				{array}		domain.Playlist
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/playlists [get]
func (h *Handler) ListPlaylists(c *gin.Context) {
	provider := c.Query("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'provider' is required",
		})
		return
	}

	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header with Bearer token is required",
		})
		return
	}

	playlists, err := h.service.ListPlaylists(c.Request.Context(), provider, token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlists)
}

// GetPlaylist returns one playlist with its tracks for preview before a transfer.
//
//	@Summary		Get playlist details
//	@Description	Returns the playlist metadata and its complete track list from the source provider.
//	@Tags			playlists
//	@Produce		json
//	@Param			id				path		string	true	"Playlist id"
//	@Param			provider		query		string	true	"Source provider"	Enums(spotify, youtube)
//	@Param			Authorization	header		string	true	"Bearer token for the provider"
//	@Success		200				{object}	domain.Playlist
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/playlists/{id} [get]
func (h *Handler) GetPlaylist(c *gin.Context) {
	provider := c.Query("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'provider' is required",
		})
		return
	}

	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header with Bearer token is required",
		})
		return
	}

	playlist, err := h.service.GetPlaylist(c.Request.Context(), provider, token, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// StartTransfer copies a playlist from the source provider to the destination.
//
//	@Summary		Start transfer
//	@Description	Reads the source playlist, searches the destination catalog for each track,
//	@Description	and adds the best match above the confidence threshold to a new playlist.
//	@Description	With async=true the transfer runs in the background and its id is returned immediately.
//	@Tags			transfers
//	@Accept			json
//	@Produce		json
//	@Param			async	query		bool					false	"Run in the background"
//	@Param			request	body		domain.TransferRequest	true	"Transfer request"
//	@Success		200		{object}	domain.TransferResult
//	@Success		202		{object}	AcceptedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	domain.TransferResult
//	@Router			/api/v1/transfers [post]
func (h *Handler) StartTransfer(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		if req.TransferID == "" {
			req.TransferID = uuid.NewString()
		}
		if err := h.service.PrepareTransfer(req.TransferID); err != nil {
			h.respondError(c, err)
			return
		}
		ctx := context.WithoutCancel(c.Request.Context())
		go h.service.StartTransfer(ctx, req)

		c.JSON(http.StatusAccepted, AcceptedResponse{
			TransferID: req.TransferID,
			Status:     domain.TransferStatusPending,
		})
		return
	}

	result := h.service.StartTransfer(c.Request.Context(), req)
	if result.Status == domain.TransferStatusFailed {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransfer returns the latest state of a transfer.
//
//	@Summary		Get transfer
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer id"
//	@Success		200	{object}	domain.TransferResult
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/v1/transfers/{id} [get]
func (h *Handler) GetTransfer(c *gin.Context) {
	result, err := h.service.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelTransfer asks a running transfer to stop before its next track.
//
//	@Summary		Cancel transfer
//	@Description	Works for transfers started with async=true as soon as their id has been returned.
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer id"
//	@Success		202	{object}	map[string]string
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/v1/transfers/{id}/cancel [post]
func (h *Handler) CancelTransfer(c *gin.Context) {
	id := c.Param("id")
	if !h.service.RequestCancellation(id) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "no running transfer with id " + id,
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"transfer_id": id, "status": "cancellation_requested"})
}

// ListTransfers returns past transfers, newest first.
//
//	@Summary		List transfers
//	@Tags			transfers
//	@Produce		json
//	@Param			user_id		query		string	false	"Only transfers started by this user"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Success		200			{array}		domain.TransferResult
//	@Failure		400			{object}	ErrorResponse
//	@Router			/api/v1/transfers [get]
func (h *Handler) ListTransfers(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		h.respondError(c, err)
		return
	}
	pageSize, err := queryInt(c, "page_size", 20)
	if err != nil {
		h.respondError(c, err)
		return
	}

	results, err := h.service.ListTransfers(c.Request.Context(), c.Query("user_id"), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ClearSearchCache drops cached destination search results.
//
//	@Summary		Clear search cache
//	@Tags			cache
//	@Success		204
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/v1/cache/search [delete]
func (h *Handler) ClearSearchCache(c *gin.Context) {
	if err := h.service.ClearSearchCache(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AcceptedResponse is returned when a transfer is started in the background.
type AcceptedResponse struct {
	TransferID string                `json:"transfer_id"`
	Status     domain.TransferStatus `json:"status"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrUnknownProvider):
		status, code = http.StatusBadRequest, "unknown_provider"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrTransferNotFound), errors.Is(err, domain.ErrPlaylistNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrTransferExists):
		status, code = http.StatusConflict, "conflict"
	}
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q must be an integer", domain.ErrInvalidRequest, key)
	}
	return v, nil
}

// extractToken retrieves the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	return auth
}
