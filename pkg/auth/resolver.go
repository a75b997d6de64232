package auth

import (
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"

	apperrors "mtp-backend/pkg/errors"
)

const (
	// DefaultDevUserHeader carries the dev-mode identity override
	DefaultDevUserHeader = "X-MTP-Dev-User"

	// AuthorizerSubHeader is set by the Lambda front door after extracting
	// the subject from a gateway authorizer claims block. The front door
	// overwrites any inbound copy, so its presence means the gateway
	// validated the caller.
	AuthorizerSubHeader = "X-Authorizer-Sub"
)

// Resolver determines the calling user for a request. Resolution order:
// dev-mode header override, unverified bearer token claims, then
// gateway authorizer claims.
type Resolver struct {
	DevMode       bool
	DevUserHeader string
}

// NewResolver creates a resolver with the given dev-mode settings
func NewResolver(devMode bool, devUserHeader string) *Resolver {
	if devUserHeader == "" {
		devUserHeader = DefaultDevUserHeader
	}
	return &Resolver{DevMode: devMode, DevUserHeader: devUserHeader}
}

// Resolve returns the user id for the request or an unauthorized error
func (r *Resolver) Resolve(req *http.Request) (string, error) {
	if r.DevMode {
		if devUser := req.Header.Get(r.DevUserHeader); devUser != "" {
			return devUser, nil
		}
	}

	if authHeader := req.Header.Get("Authorization"); authHeader != "" {
		if userID := userIDFromBearer(authHeader); userID != "" {
			return userID, nil
		}
	}

	if sub := req.Header.Get(AuthorizerSubHeader); sub != "" {
		return sub, nil
	}

	return "", apperrors.NewUnauthorizedError("Unauthorized")
}

// userIDFromBearer decodes the claims segment of a bearer token without
// verifying the signature and returns the best identity claim available.
// Signature verification belongs to the gateway authorizer in front of
// this service; tokens reaching here have already passed it.
func userIDFromBearer(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(parts[1], claims); err != nil {
		return ""
	}

	for _, name := range []string{"sub", "cognito:username", "email"} {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// AuthorizerSub extracts the subject from an API Gateway authorizer
// claims block. Both the flat REST shape (claims.sub) and the nested
// HTTP API shape (jwt.claims.sub) are supported.
func AuthorizerSub(req events.APIGatewayV2HTTPRequest) string {
	authorizer := req.RequestContext.Authorizer
	if authorizer == nil {
		return ""
	}

	if authorizer.JWT != nil {
		if sub := authorizer.JWT.Claims["sub"]; sub != "" {
			return sub
		}
	}

	if authorizer.Lambda != nil {
		if claims, ok := authorizer.Lambda["claims"].(map[string]interface{}); ok {
			if sub, ok := claims["sub"].(string); ok && sub != "" {
				return sub
			}
		}
		if jwtBlock, ok := authorizer.Lambda["jwt"].(map[string]interface{}); ok {
			if claims, ok := jwtBlock["claims"].(map[string]interface{}); ok {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					return sub
				}
			}
		}
	}

	return ""
}
