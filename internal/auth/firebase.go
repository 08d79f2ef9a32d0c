// Package auth verifies Firebase ID tokens and carries the authenticated
// user's claims through request contexts.
package auth

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuth handles Firebase authentication.
type FirebaseAuth struct {
	client *auth.Client
}

// UserClaims represents the authenticated user information.
type UserClaims struct {
	UID         string
	Email       string
	DisplayName string
	Verified    bool
}

// NewFirebaseAuth creates a new FirebaseAuth instance. On Cloud Run the
// default credentials work automatically; locally a service account key
// file can be pointed at with GOOGLE_APPLICATION_CREDENTIALS.
func NewFirebaseAuth(ctx context.Context) (*FirebaseAuth, error) {
	opts := []option.ClientOption{}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}

	return &FirebaseAuth{client: client}, nil
}

// VerifyToken verifies a Firebase ID token and returns the user claims.
func (f *FirebaseAuth) VerifyToken(ctx context.Context, idToken string) (*UserClaims, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	verified, _ := token.Claims["email_verified"].(bool)
	claims := &UserClaims{
		UID:      token.UID,
		Verified: verified,
	}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.DisplayName = name
	}
	return claims, nil
}
