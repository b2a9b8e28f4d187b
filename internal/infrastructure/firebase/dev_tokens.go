package firebase

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateDevToken mints an unsigned-trust local JWT for exercising the API
// without the Firebase emulator. Only ever wired on the dev router.
func GenerateDevToken(secret, uid string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(expiry).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseDevToken verifies a dev token and returns the uid claim.
func ParseDevToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return uid, nil
}
