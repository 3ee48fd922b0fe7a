package middleware

import (
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Token issuance lives outside this service; only verification happens here.
// Tokens are HS256 with the author ID in the "sub" claim.

var (
	errMissingToken = errors.New("authorization required")
	errBadHeader    = errors.New("invalid authorization header format")
	errBadToken     = errors.New("invalid or expired token")
	errBadSubject   = errors.New("invalid subject claim")
)

// Authenticator verifies bearer tokens and stores the author ID in fiber locals.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator returns an Authenticator using the shared HMAC secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := a.fromHeader(c.Get("Authorization"))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(capitalize(err.Error())))
		}
		setUser(c, userID)
		return c.Next()
	}
}

// Optional sets the author when a valid token is present and lets anonymous requests through.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := a.fromHeader(c.Get("Authorization")); err == nil {
			setUser(c, userID)
		}
		return c.Next()
	}
}

// WebSocket accepts the token from the "token" query parameter, falling back to the header.
// Browsers cannot set headers on a WebSocket upgrade.
func (a *Authenticator) WebSocket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			userID uint
			err    error
		)
		if token := c.Query("token"); token != "" {
			userID, err = a.parse(token)
		} else {
			userID, err = a.fromHeader(c.Get("Authorization"))
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(capitalize(err.Error())))
		}
		setUser(c, userID)
		return c.Next()
	}
}

func (a *Authenticator) fromHeader(header string) (uint, error) {
	if header == "" {
		return 0, errMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, errBadHeader
	}
	return a.parse(parts[1])
}

func (a *Authenticator) parse(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errBadToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errBadSubject
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errBadSubject
	}
	return uint(userID), nil
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
