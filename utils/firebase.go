// utils/firebase.go
package utils

import (
	"context"
	"encoding/base64"
	"fmt"

	"repairright/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuth initializes the Firebase app and returns its Auth client. Credentials
// come from FB_SERVICE_KEY (base64 service account JSON) or FIREBASE_CREDENTIALS_FILE.
func FirebaseAuth(ctx context.Context) (*auth.Client, error) {
	var opt option.ClientOption
	switch {
	case config.AppConfig.FirebaseServiceKey != "":
		decoded, err := base64.StdEncoding.DecodeString(config.AppConfig.FirebaseServiceKey)
		if err != nil {
			return nil, fmt.Errorf("firebase: invalid FB_SERVICE_KEY: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
	case config.AppConfig.FirebaseCredentialsFile != "":
		opt = option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)
	default:
		return nil, fmt.Errorf("firebase: no service account configured")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return client, nil
}
