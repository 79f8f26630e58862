package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the approval lifecycle.
const (
	RoleAdmin           string = "ADMIN"
	RoleLecturer        string = "LECTURER"
	RoleHOD             string = "HOD"
	RoleAcademicAffairs string = "ACADEMIC_AFFAIRS"
	RolePrincipal       string = "PRINCIPAL"
)

type usernameKeyType struct{}

var (
	usernameKey usernameKeyType
)

type User struct {
	Username     string
	Organization string
	Role         string
	Token        *jwt.Token
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(usernameKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

// MustHaveUser returns the user stored in ctx and panics if there is none.
// The authenticator middleware guarantees a user on every authenticated route.
func MustHaveUser(ctx context.Context) User {
	user, found := UserFromContext(ctx)
	if !found {
		panic("failed to find user in context")
	}
	return user
}

func NewTokenContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, usernameKey, u)
}
