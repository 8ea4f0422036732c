package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"renovo-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
	// fbStorageClient is the global Firebase Storage client instance.
	fbStorageClient *storage.Client
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore,
// Auth and Storage clients from the provided appConfig.
func InitFirebase(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			// ADC may still be available in the environment.
			logger.Warn("Credentials file does not exist", zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON.")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC).")
	}

	firebaseAppConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.FirebaseStorageBucket,
	}

	app, err := firebase.NewApp(ctx, firebaseAppConfig, opts...)
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}
	fsClient = client

	authCl, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close() // best effort
		return fmt.Errorf("app.Auth: %w", err)
	}
	fbAuthClient = authCl

	storageCl, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return fmt.Errorf("app.Storage: %w", err)
	}
	fbStorageClient = storageCl

	logger.Info("Firebase clients initialized", zap.String("projectID", appConfig.FirebaseProjectID))
	return nil
}

// GetFirestoreClient returns the global Firestore client, nil before InitFirebase succeeds.
func GetFirestoreClient() *firestore.Client {
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client.
func GetFirebaseAuthClient() *auth.Client {
	return fbAuthClient
}

// GetFirebaseStorageClient returns the global Firebase Storage client.
func GetFirebaseStorageClient() *storage.Client {
	return fbStorageClient
}

// Close releases the Firestore client.
func Close() error {
	if fsClient != nil {
		return fsClient.Close()
	}
	return nil
}
