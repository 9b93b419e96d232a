package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the trusted identity extracted from a connection token. The
// account system that issues tokens lives outside this process; the engine
// only verifies them.
type UserInfo struct {
	UId   string
	UName string
}

func VerifyToken(secret []byte, tokenRaw string) (*UserInfo, error) {
	claims := make(jwt.MapClaims)
	token, err := jwt.ParseWithClaims(tokenRaw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	ret := &UserInfo{}
	if v, has := claims["uid"]; has {
		if vstr, ok := v.(string); ok {
			ret.UId = vstr
		}
	}
	if v, has := claims["aud"]; has {
		if vstr, ok := v.(string); ok {
			ret.UName = vstr
		}
	}
	if ret.UId == "" {
		return nil, fmt.Errorf("token has no uid claim")
	}
	return ret, nil
}

func GenerateToken(secret []byte, uinfo *UserInfo, validity time.Duration) (string, error) {
	if validity == 0 {
		validity = 24 * time.Hour
	}
	claims := make(jwt.MapClaims)
	claims["exp"] = time.Now().Add(validity).Unix()
	claims["iat"] = time.Now().Unix()
	claims["uid"] = uinfo.UId
	claims["aud"] = uinfo.UName
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// TokenAuthFunc verifies a raw token into a trusted identity.
type TokenAuthFunc func(tokenRaw string) (*UserInfo, error)

func HmacTokenAuth(secret []byte) TokenAuthFunc {
	return func(tokenRaw string) (*UserInfo, error) {
		return VerifyToken(secret, tokenRaw)
	}
}
