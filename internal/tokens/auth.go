package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// AccessClaims данные токена доступа. Токены выпускает внешний сервис
// авторизации, с ним мы разделяем только секрет и форму claims.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateAccessJWT выпускает HS256 токен доступа с заданным сроком жизни.
// В проде этим занимается сервис авторизации, здесь выпуск нужен тестам.
func GenerateAccessJWT(userID string, ttl time.Duration, key []byte) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing access jwt")
	}
	return signed, nil
}

// ValidateAccessJWT проверяет подпись и срок действия токена и возвращает его
// данные. На истекший токен возвращает ErrTokenExpired.
func ValidateAccessJWT(tokenString string, key []byte) (*AccessClaims, error) {
	claims := new(AccessClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, "parsing access jwt")
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}
