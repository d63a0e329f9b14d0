package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/paper-review-chat/pkg/log"
	"github.com/weiawesome/paper-review-chat/pkg/middleware"
	"github.com/weiawesome/paper-review-chat/pkg/response"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
	"github.com/weiawesome/paper-review-chat/review-service/internal/repository"
	"github.com/weiawesome/paper-review-chat/review-service/internal/service"
)

// Handler handles HTTP requests for the review service.
type Handler struct {
	chatService    service.ChatService
	authService    service.AuthService
	authMiddleware *middleware.AuthMiddleware
	cookieTTL      time.Duration
}

// NewHandler creates a new HTTP handler. cookieTTL is the lifetime of the
// auth cookie set on login.
func NewHandler(
	chatService service.ChatService,
	authService service.AuthService,
	authMiddleware *middleware.AuthMiddleware,
	cookieTTL time.Duration,
) *Handler {
	return &Handler{
		chatService:    chatService,
		authService:    authService,
		authMiddleware: authMiddleware,
		cookieTTL:      cookieTTL,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth/user")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	chat := r.Group("/inf/api/events/paper/:paperId/chat")
	chat.Use(h.authMiddleware.RequireAuth())
	{
		chat.GET("", h.GetChat)
		chat.POST("/message", h.PostMessage)

		// Reviewer tools, restricted to the chat's assigned reviewer
		chat.POST("/reply", h.Reply)
		chat.PUT("/status", h.UpdateStatus)
	}
}

// Register handles account creation.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		authFailure(c, http.StatusBadRequest, "Name, a valid email and a password of at least 6 characters are required")
		return
	}

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			authFailure(c, http.StatusConflict, "Email already registered")
			return
		}
		l.Error().Err(err).Msg("register failed")
		authFailure(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.authSuccess(c, "Registration successful", result)
}

// Login handles user login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		authFailure(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authFailure(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		authFailure(c, http.StatusInternalServerError, "Login failed")
		return
	}

	h.authSuccess(c, "Login successful", result)
}

// The auth endpoints always answer 200 and carry the outcome in code.
func authFailure(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, domain.AuthResponse{Code: code, Msg: msg})
}

func (h *Handler) authSuccess(c *gin.Context, msg string, result *domain.AuthResult) {
	middleware.SetAuthCookie(c, result.AccessToken, int(h.cookieTTL.Seconds()))
	c.JSON(http.StatusOK, domain.AuthResponse{
		Code:        http.StatusOK,
		Msg:         msg,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        result.User.ToAuthUser(),
	})
}

// GetChat returns the caller's chat for a paper.
func (h *Handler) GetChat(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	paperID := c.Param("paperId")
	userID := c.Query("userId")

	if !requireSelf(c, userID) {
		return
	}

	chat, err := h.chatService.GetChat(ctx, paperID, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldPaperID, paperID).Msg("failed to get chat")
		response.InternalError(c, "Failed to fetch chat data")
		return
	}

	response.Success(c, chat)
}

// PostMessage appends the caller's message.
func (h *Handler) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	paperID := c.Param("paperId")

	var req domain.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId is required")
		return
	}
	if !requireSelf(c, req.UserID) {
		return
	}
	if req.Sender != "" && req.Sender != domain.SenderUser {
		response.BadRequest(c, "sender must be user")
		return
	}

	msg, err := h.chatService.PostMessage(ctx, paperID, req.UserID, req.Text)
	if err != nil {
		h.messageError(c, err)
		return
	}
	response.Success(c, msg)
}

// Reply appends a reviewer message to a user's chat.
func (h *Handler) Reply(c *gin.Context) {
	ctx := c.Request.Context()
	paperID := c.Param("paperId")

	var req domain.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId is required")
		return
	}

	msg, err := h.chatService.Reply(ctx, paperID, req.UserID, middleware.GetUserID(c), req.Text)
	if err != nil {
		h.messageError(c, err)
		return
	}
	response.Success(c, msg)
}

// UpdateStatus moves a user's chat to another status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	paperID := c.Param("paperId")

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId and status are required")
		return
	}

	chat, err := h.chatService.UpdateStatus(ctx, paperID, req.UserID, middleware.GetUserID(c), req.Status)
	switch {
	case err == nil:
		response.Success(c, chat)
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, "status must be pending, completed or declined")
	case errors.Is(err, service.ErrChatNotFound):
		response.NotFound(c, "Chat not found")
	case errors.Is(err, service.ErrNotReviewer):
		response.Forbidden(c, "only the assigned reviewer can change this chat")
	default:
		l.Error().Err(err).Str(log.FieldPaperID, paperID).Msg("failed to update chat status")
		response.InternalError(c, "Failed to update chat status")
	}
}

// messageError maps send failures. Domain refusals are answered with
// 200 and success=false.
func (h *Handler) messageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotReviewer):
		response.Forbidden(c, "only the assigned reviewer can reply in this chat")
	case errors.Is(err, service.ErrEmptyText):
		response.Rejected(c, "EMPTY_MESSAGE", "Message text is required")
	case errors.Is(err, service.ErrChatClosed):
		response.Rejected(c, "CHAT_CLOSED", "Chat is not accepting new messages")
	case errors.Is(err, service.ErrChatNotFound):
		response.Rejected(c, "CHAT_NOT_FOUND", "Chat not found")
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Str(log.FieldPaperID, c.Param("paperId")).Msg("failed to post message")
		response.InternalError(c, "Failed to send message")
	}
}

// requireSelf allows a request only for the authenticated user's own chat.
func requireSelf(c *gin.Context, userID string) bool {
	if userID == "" {
		response.BadRequest(c, "userId is required")
		return false
	}
	if userID != middleware.GetUserID(c) {
		response.Forbidden(c, "cannot access another user's chat")
		return false
	}
	return true
}
