package auth

import "time"

type Strategy interface {
	IssueToken(userID int64, role int) (string, error)
	ParseToken(token string) (int64, int, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
