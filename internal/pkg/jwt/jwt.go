package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider and mints
// short-lived stream tokens. EventSource clients cannot set an Authorization
// header, so live-stream connections authenticate with a stream token passed
// as a query parameter instead.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateStreamToken(managerID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (managerID string, err error)
}

type JWTService struct {
	tokenAuth       *jwtauth.JWTAuth
	streamTokenLife time.Duration
}

func NewJWTService(secretKey string, streamTokenLife time.Duration) Service {
	if streamTokenLife <= 0 {
		streamTokenLife = 5 * time.Minute
	}
	return &JWTService{
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		streamTokenLife: streamTokenLife,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateStreamToken mints a short-lived token for live-stream connections
func (j *JWTService) GenerateStreamToken(managerID string) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(j.streamTokenLife)

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"manager_id": managerID,
		"type":       "stream",
		"exp":        expiresAt.Unix(),
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(j.streamTokenLife.Seconds()), nil
}

// ValidateStreamToken validates a stream token and returns the manager ID
func (j *JWTService) ValidateStreamToken(tokenString string) (managerID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if err := jwt.Validate(token); err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "stream" {
		return "", jwt.ErrInvalidJWT()
	}

	managerIDVal, ok := token.Get("manager_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	managerID, ok = managerIDVal.(string)
	if !ok || managerID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return managerID, nil
}
