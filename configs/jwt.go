package configs

import (
	"errors"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JWTClaim struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

func GenerateJWT(id, email, role string) (string, int64, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	jwtKey := LoadEnvFor("SECRET")

	claims := JWTClaim{
		Id:    id,
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

func GenerateRefreshJWT(id, email, role string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour * 7)
	jwtKey := LoadEnvFor("REFRESH_SECRET")

	claims := JWTClaim{
		Id:    id,
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ValidateToken(signedToken string) (*JWTClaim, error) {
	jwtKey := LoadEnvFor("SECRET")
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtKey), nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaim)
	if !ok {
		return nil, errors.New("couldn't parse token claims")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token expired")
	}

	return claims, nil
}

func ValidateRefreshToken(signedToken string) (*JWTClaim, error) {
	jwtKey := LoadEnvFor("REFRESH_SECRET")
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtKey), nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaim)
	if !ok {
		return nil, errors.New("couldn't parse token claims")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

func ExtractToken(c *gin.Context) string {
	bearerToken := c.Request.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

// InitJwtClaim parses and validates the bearer token on the request.
func InitJwtClaim(c *gin.Context) (*JWTClaim, error) {
	tokenString := ExtractToken(c)
	if tokenString == "" {
		return nil, errors.New("request does not contain an access token")
	}
	return ValidateToken(tokenString)
}

func (claim *JWTClaim) GetUserObjectId() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(claim.Id)
}
