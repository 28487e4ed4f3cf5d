package services

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// IdentityUser is the subset of a provider account this service reads.
type IdentityUser struct {
	UID         string
	Email       string
	DisplayName string
}

// IdentityToken is a verified ID token.
type IdentityToken struct {
	UID    string
	Claims map[string]interface{}
}

// IsAdmin reports whether the token carries the admin role custom claim.
func (t *IdentityToken) IsAdmin() bool {
	if t == nil {
		return false
	}
	role, _ := t.Claims["role"].(string)
	return role == "admin"
}

// IdentityProvider is the external account system. Unknown users surface as
// ErrIdentityNotFound.
type IdentityProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*IdentityUser, error)
	CreateUser(ctx context.Context, name, email, password string) (*IdentityUser, error)
	UpdateUser(ctx context.Context, uid, name, email string) error
	DeleteUser(ctx context.Context, uid string) error
	CustomToken(ctx context.Context, uid string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (*IdentityToken, error)
}

// TokenVerifier is the part of IdentityProvider the bearer-token middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*IdentityToken, error)
}

// FirebaseIdentity implements IdentityProvider with Firebase Authentication.
type FirebaseIdentity struct {
	client *auth.Client
}

// ServiceAccountOption builds a credentials option from the three FIREBASE_*
// variables the deployment provides instead of a key file.
func ServiceAccountOption(projectID, clientEmail, privateKey string) (option.ClientOption, error) {
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  privateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, err
	}
	return option.WithCredentialsJSON(creds), nil
}

func NewFirebaseIdentity(ctx context.Context, projectID, bucket string, opts ...option.ClientOption) (*FirebaseIdentity, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: bucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

func (f *FirebaseIdentity) GetUserByEmail(ctx context.Context, email string) (*IdentityUser, error) {
	rec, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return toIdentityUser(rec), nil
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, name, email, password string) (*IdentityUser, error) {
	params := (&auth.UserToCreate{}).
		DisplayName(name).
		Email(email).
		Password(password)
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}
	return toIdentityUser(rec), nil
}

func (f *FirebaseIdentity) UpdateUser(ctx context.Context, uid, name, email string) error {
	params := &auth.UserToUpdate{}
	if name != "" {
		params = params.DisplayName(name)
	}
	if email != "" {
		params = params.Email(email)
	}
	_, err := f.client.UpdateUser(ctx, uid, params)
	if auth.IsUserNotFound(err) {
		return ErrIdentityNotFound
	}
	return err
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	err := f.client.DeleteUser(ctx, uid)
	if auth.IsUserNotFound(err) {
		return ErrIdentityNotFound
	}
	return err
}

func (f *FirebaseIdentity) CustomToken(ctx context.Context, uid string) (string, error) {
	return f.client.CustomToken(ctx, uid)
}

func (f *FirebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (*IdentityToken, error) {
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &IdentityToken{UID: tok.UID, Claims: tok.Claims}, nil
}

func toIdentityUser(rec *auth.UserRecord) *IdentityUser {
	if rec == nil || rec.UserInfo == nil {
		return &IdentityUser{}
	}
	return &IdentityUser{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
	}
}
