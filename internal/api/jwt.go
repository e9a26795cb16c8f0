package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/pokearena/arena-server/internal/constants"
)

// Session tokens are compact HS256 JWTs minted after the OAuth callback and
// carried in the session cookie. The engine never sees them; they only
// identify the account the profile layer maps to a wallet address.
type sessionClaims struct {
	Email    string `json:"sub"`
	Name     string `json:"name"`
	IssuedAt int64  `json:"iat"`
	Expires  int64  `json:"exp"`
}

var (
	errBadToken     = errors.New("malformed session token")
	errBadSignature = errors.New("session token signature mismatch")
	errTokenExpired = errors.New("session token expired")
)

// sessionHeader is constant for every token this server mints.
var sessionHeader = mustSegment(map[string]string{"alg": "HS256", "typ": "JWT"})

var devSecret []byte

// sessionSecret returns the HMAC key. Without SESSION_SECRET set a random
// in-memory key is generated, so dev sessions die with the process.
func sessionSecret() ([]byte, error) {
	if secret := os.Getenv(constants.EnvSessionSecret); secret != "" {
		return []byte(secret), nil
	}
	if len(devSecret) == 0 {
		devSecret = make([]byte, 32)
		if _, err := crand.Read(devSecret); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return devSecret, nil
}

func mustSegment(v interface{}) string {
	b, _ := json.Marshal(v)
	return base64.RawURLEncoding.EncodeToString(b)
}

func sign(unsigned string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// newSessionToken mints a signed token binding the account email and
// display name for ttl.
func newSessionToken(email, name string, ttl time.Duration) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().Unix()
	claims := sessionClaims{Email: email, Name: name, IssuedAt: now, Expires: now + int64(ttl.Seconds())}
	unsigned := sessionHeader + "." + mustSegment(claims)
	return unsigned + "." + sign(unsigned, secret), nil
}

// verifySessionToken checks the signature and expiry and returns the claims.
func verifySessionToken(token string) (*sessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errBadToken
	}
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	unsigned := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(sign(unsigned, secret)), []byte(parts[2])) {
		return nil, errBadSignature
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errBadToken
	}
	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errBadToken
	}
	if time.Now().Unix() > claims.Expires {
		return nil, errTokenExpired
	}
	return &claims, nil
}
