package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	callerKey    = "caller"
	claimsKey    = "jwt_claims"
	bearerPrefix = "Bearer "
)

// AuthConfig configures bearer token authentication
type AuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is consulted when set; lookup failures let the request through
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Auth requires a valid access token and stores the caller for handlers
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, true)
}

// OptionalAuth stores the caller when a valid token is presented and lets
// anonymous requests through.
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, false)
}

func authenticate(cfg AuthConfig, required bool) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && !required {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimPrefix(header, bearerPrefix) == "" {
			rejectAuth(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(strings.TrimPrefix(header, bearerPrefix))
		if err == nil && cfg.Blacklist != nil {
			err = checkRevoked(c, cfg.Blacklist, claims, log)
		}
		var caller shared.Caller
		if err == nil {
			caller, err = claims.Caller()
		}
		if err != nil {
			rejectAuth(c, log, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Set(callerKey, caller)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func checkRevoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) error {
	ctx := c.Request.Context()
	if claims.ID != "" {
		revoked, err := blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return auth.ErrTokenBlacklisted
		}
	}
	invalidated, err := blacklist.UserRevokedAt(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		log.Error("user token invalidation lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil
	}
	if invalidated {
		return auth.ErrTokenBlacklisted
	}
	return nil
}

func rejectAuth(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}
	log.Debug("authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	abortWithError(c, code, message)
}

// GetCaller returns the authenticated caller, or the anonymous caller
func GetCaller(c *gin.Context) shared.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(shared.Caller); ok {
			return caller
		}
	}
	return shared.Caller{}
}

// GetClaims returns the validated token claims, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		claims, _ := v.(*auth.Claims)
		return claims
	}
	return nil
}
