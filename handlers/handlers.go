package handlers

import (
	"errors"
	"net/http"

	"github.com/garoto002/siku-backend/alerts"
	"github.com/garoto002/siku-backend/cache"
	"github.com/garoto002/siku-backend/llm"
	"github.com/garoto002/siku-backend/middleware"
	"github.com/garoto002/siku-backend/models"
	"github.com/garoto002/siku-backend/mongodb"
	"github.com/garoto002/siku-backend/sse"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Handler carries every dependency the HTTP layer needs. It is built once
// in main and shared across requests.
type Handler struct {
	Store     *mongodb.Store
	Engine    *alerts.Engine
	Broker    *sse.Broker
	Cache     *cache.Cache
	AI        *llm.Client
	JWTSecret string
}

// userID resolves the authenticated caller's ObjectID from the claims the
// auth middleware stored. A failure here means the middleware did not run
// or the token subject is corrupt.
func (h *Handler) userID(c *gin.Context) (bson.ObjectID, bool) {
	value, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return bson.ObjectID{}, false
	}

	claims, ok := value.(*models.UserClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user claims"})
		return bson.ObjectID{}, false
	}

	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id in token"})
		return bson.ObjectID{}, false
	}
	return id, true
}

func pathObjectID(c *gin.Context, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return bson.ObjectID{}, false
	}
	return id, true
}

// writeStoreError maps storage errors onto HTTP statuses: not-found is
// reported distinctly from everything else.
func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
