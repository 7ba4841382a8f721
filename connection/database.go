package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"teamboard/config"
	"teamboard/services"
)

// DBConnection opens the MySQL database holding user accounts.
func DBConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return db, nil
}

// FBConnection initialises the Firebase app and its Firestore client.
func FBConnection(ctx context.Context, cfg config.Config) (*firebase.App, *firestore.Client, error) {
	app, err := services.InitializeFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	return app, client, nil
}
