// utils/firebase.go
package utils

import (
	"context"

	"servicesync/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client. A missing
// credentials file leaves FCMClient nil; push delivery then degrades to a
// no-op rather than blocking startup in dev environments.
func FirebaseInit() {
	path := config.AppConfig.FirebaseCredentialsFile
	if path == "" {
		GetLogger().Warn("firebase: no credentials file configured, push notifications disabled")
		return
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(path)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		GetLogger().Sugar().Errorf("firebase: error initializing app: %v", err)
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		GetLogger().Sugar().Errorf("firebase: error getting Messaging client: %v", err)
		return
	}

	FCMClient = client
}
