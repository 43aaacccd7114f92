package auth

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conduit/internal/apperr"
)

// Scheme prefixes the token in the Authorization header.
const Scheme = "Token "

// State is the outcome of inspecting a request's credentials.
type State int

const (
	StateAbsent State = iota
	StateMalformed
	StateInvalid
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateMalformed:
		return "malformed"
	case StateInvalid:
		return "invalid"
	default:
		return "verified"
	}
}

// Identity is a verified caller.
type Identity struct {
	UserID int64
	Token  string
}

// Result carries the terminal state; Identity is set only when Verified.
type Result struct {
	State    State
	Identity *Identity
}

// Guard is the single place signature and expiry checks happen for requests.
type Guard struct {
	tokens *Tokens
}

func NewGuard(tokens *Tokens) *Guard {
	return &Guard{tokens: tokens}
}

// Inspect classifies the Authorization header. The error is non-nil for
// Malformed and Invalid.
func (g *Guard) Inspect(h http.Header) (Result, error) {
	values := h.Values("Authorization")
	if len(values) == 0 {
		return Result{State: StateAbsent}, nil
	}
	if len(values) > 1 || !isText(values[0]) {
		return Result{State: StateMalformed}, apperr.NotAuthorized("invalid authorization header")
	}

	token, ok := strings.CutPrefix(values[0], Scheme)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Result{State: StateMalformed}, apperr.NotAuthorized("invalid authorization header")
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		message := "invalid token"
		if errors.Is(err, ErrTokenExpired) {
			message = "token expired"
		}
		return Result{State: StateInvalid}, &apperr.Error{Kind: apperr.KindNotAuthorized, Message: message, Err: err}
	}

	return Result{State: StateVerified, Identity: &Identity{UserID: userID, Token: token}}, nil
}

// Optional returns nil for anonymous callers but still rejects bad credentials.
func (g *Guard) Optional(h http.Header) (*Identity, error) {
	result, err := g.Inspect(h)
	if err != nil {
		return nil, err
	}
	return result.Identity, nil
}

// Required additionally rejects anonymous callers.
func (g *Guard) Required(h http.Header) (*Identity, error) {
	result, err := g.Inspect(h)
	if err != nil {
		return nil, err
	}
	if result.State == StateAbsent {
		return nil, apperr.NotAuthorized("authentication required")
	}
	return result.Identity, nil
}

func isText(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
