// Package api exposes the HTTP surface over gin.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"personachat/internal/auth"
	"personachat/internal/chat"
	"personachat/internal/models"
	"personachat/internal/persona"
	"personachat/internal/store"
)

// StatusInfo is the static part of the /api/status payload, captured at
// startup.
type StatusInfo struct {
	Provider           string
	KnowledgeDocuments int
	CacheEnabled       bool
}

// Handler wires HTTP routes to the chat service and the auth layer.
type Handler struct {
	chat   *chat.Service
	auth   *auth.Service
	users  *store.CredentialStore
	status StatusInfo
}

// NewHandler constructs a Handler instance.
func NewHandler(chatService *chat.Service, authService *auth.Service, users *store.CredentialStore, status StatusInfo) *Handler {
	return &Handler{
		chat:   chatService,
		auth:   authService,
		users:  users,
		status: status,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/health", h.health)
	api.GET("/status", h.serviceStatus)
	api.GET("/personas", h.listPersonas)
	api.GET("/suggested-questions/:persona", h.suggestedQuestions)
	api.POST("/chat", h.postChat)
	api.POST("/save-message", h.saveMessage)
	api.GET("/chat-history/:user_id/:persona", h.chatHistory)
	api.DELETE("/clear-history/:user_id/:persona", h.clearHistory)
	api.POST("/users/login", h.loginUser)

	authMW := h.auth.Middleware()
	userRoutes := api.Group("/users")
	userRoutes.Use(authMW, h.auth.CSRFMiddleware())
	userRoutes.POST("/logout", h.logoutUser)
	userRoutes.GET("/me", h.currentUser)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) serviceStatus(c *gin.Context) {
	provider := h.status.Provider
	if provider == "" {
		provider = "none"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"llm_provider":        provider,
		"knowledge_documents": h.status.KnowledgeDocuments,
		"cache_enabled":       h.status.CacheEnabled,
		"timestamp":           time.Now().UTC(),
	})
}

func (h *Handler) listPersonas(c *gin.Context) {
	defs := persona.All()
	out := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		out = append(out, gin.H{
			"label":       string(def.Persona),
			"description": def.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"personas": out})
}

func (h *Handler) suggestedQuestions(c *gin.Context) {
	p, err := models.ParsePersona(c.Param("persona"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown persona"})
		return
	}
	def, err := persona.Get(p)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown persona"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"persona":   string(p),
		"questions": def.SuggestedQuestions,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	Persona string `json:"persona"`
	UserID  string `json:"user_id"`
}

func (h *Handler) postChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	p := models.PersonaGeneral
	if req.Persona != "" {
		var err error
		p, err = models.ParsePersona(req.Persona)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown persona"})
			return
		}
	}
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	ex, err := h.chat.Ask(c.Request.Context(), userID, p, req.Message)
	if err != nil {
		if errors.Is(err, models.ErrUnknownPersona) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown persona"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"answer":     ex.Answer.Content,
		"message_id": ex.Answer.ID,
		"persona":    string(p),
		"fallback":   ex.Fallback,
		"timestamp":  ex.Answer.CreatedAt,
	}
	if ex.Answer.Source != nil {
		resp["source"] = ex.Answer.Source
	}
	c.JSON(http.StatusOK, resp)
}

type saveMessageRequest struct {
	Message     string `json:"message"`
	Persona     string `json:"persona"`
	UserID      string `json:"user_id"`
	MessageType string `json:"message_type"`
}

func (h *Handler) saveMessage(c *gin.Context) {
	var req saveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" || req.Persona == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message, persona, and user_id are required"})
		return
	}
	p, err := models.ParsePersona(req.Persona)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown persona"})
		return
	}
	role := models.RoleUser
	if req.MessageType == string(models.RoleAssistant) {
		role = models.RoleAssistant
	}

	msg, err := h.chat.SaveMessage(req.UserID, p, role, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message_id": msg.ID,
	})
}

func (h *Handler) chatHistory(c *gin.Context) {
	p, err := models.ParsePersona(c.Param("persona"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown persona"})
		return
	}
	userID := c.Param("user_id")
	messages, err := h.chat.History(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"persona":  string(p),
		"messages": messages,
	})
}

func (h *Handler) clearHistory(c *gin.Context) {
	p, err := models.ParsePersona(c.Param("persona"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown persona"})
		return
	}
	userID := c.Param("user_id")
	if err := h.chat.ClearHistory(userID, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "cleared",
		"user_id": userID,
		"persona": string(p),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	authToken, err := h.auth.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	csrfToken, err := h.auth.NewCSRFToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	h.setAuthCookies(c, authToken, csrfToken)
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"persona":    user.Persona,
		"auth_token": authToken,
	})
}

func (h *Handler) logoutUser(c *gin.Context) {
	if authToken, ok := auth.AuthTokenFromContext(c); ok {
		_ = h.auth.RevokeToken(c.Request.Context(), authToken)
	}
	h.clearAuthCookies(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) currentUser(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	user, ok := h.users.FindByID(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"persona": user.Persona,
	})
}

func (h *Handler) setAuthCookies(c *gin.Context, authToken, csrfToken string) {
	ttl := int(h.auth.TokenTTL().Seconds())
	if ttl <= 0 {
		ttl = 3600
	}
	secure := gin.Mode() == gin.ReleaseMode
	setCookie(c, &http.Cookie{
		Name:     h.auth.AuthCookieName(),
		Value:    authToken,
		MaxAge:   ttl,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	setCookie(c, &http.Cookie{
		Name:     h.auth.CSRFCookieName(),
		Value:    csrfToken,
		MaxAge:   ttl,
		Path:     "/",
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	for _, name := range []string{h.auth.AuthCookieName(), h.auth.CSRFCookieName()} {
		setCookie(c, &http.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			Path:     "/",
			Secure:   gin.Mode() == gin.ReleaseMode,
			HttpOnly: name == h.auth.AuthCookieName(),
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func setCookie(c *gin.Context, ck *http.Cookie) {
	if ck == nil {
		return
	}
	http.SetCookie(c.Writer, ck)
}
