package utils // package utils provides helpers for token creation and credential generation

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for reset tokens
    "math/big"     // uniform selection over the password alphabet
    "time"         // expiration arithmetic

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string and Exp the UTC expiration time.
// Access tokens are carried in the Authorization header when calling
// protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for an admin account.  The
// claims are the standard subject (sub), the account email, the role used
// by the role guard, plus exp and iat.
func NewAccessToken(secret string, userID uint64, email, role string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "role":  role,
        "exp":   exp.Unix(),
        "iat":   time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewResetToken returns a cryptographically secure random token for the
// password-reset flow: 32 random bytes hex-encoded to 64 characters.
func NewResetToken() (string, error) {
    buf := make([]byte, 32)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// tempPasswordAlphabet is the 62-character alphanumeric alphabet used
// for temporary passwords.
const tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewTemporaryPassword mints an admin temporary password: the fixed
// "SR" prefix followed by 8 characters drawn uniformly from the
// alphanumeric alphabet via crypto/rand. This is the single generator
// for every flow that issues a temporary credential.
func NewTemporaryPassword() (string, error) {
    out := make([]byte, 8)
    max := big.NewInt(int64(len(tempPasswordAlphabet)))
    for i := range out {
        n, err := rand.Int(rand.Reader, max)
        if err != nil {
            return "", err
        }
        out[i] = tempPasswordAlphabet[n.Int64()]
    }
    return "SR" + string(out), nil
}
