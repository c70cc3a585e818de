package utils

import (
	"crypto/rand"
	"errors"
	"os"
	"time"

	"github.com/kataras/iris/v12/middleware/jwt"
)

// InviteToken is the signed payload embedded in guest invite links.
type InviteToken struct {
	WeddingID uint `json:"weddingID"`
	LinkID    uint `json:"linkID"`
}

func CreateInviteToken(weddingID, linkID uint, ttl time.Duration) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("INVITE_TOKEN_SECRET"), ttl)

	token, err := signer.Sign(InviteToken{WeddingID: weddingID, LinkID: linkID})
	if err != nil {
		return "", err
	}
	return string(token), nil
}

func VerifyInviteToken(raw string) (*InviteToken, error) {
	verifier := jwt.NewVerifier(jwt.HS256, os.Getenv("INVITE_TOKEN_SECRET"))

	verified, err := verifier.VerifyToken([]byte(raw))
	if err != nil {
		return nil, err
	}

	var claims InviteToken
	if err := verified.Claims(&claims); err != nil {
		return nil, err
	}
	if claims.WeddingID == 0 || claims.LinkID == 0 {
		return nil, errors.New("malformed invite token")
	}
	return &claims, nil
}

// GenerateShortToken returns a URL-safe random string of the given length (bytes*2 hex).
func GenerateShortToken(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}
