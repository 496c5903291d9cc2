package main

import (
	"flag"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gurimusan/oauth2-sample/internal/auth"
	"github.com/gurimusan/oauth2-sample/internal/models"
	"github.com/gurimusan/oauth2-sample/internal/services"
)

// Seeds the development database with a user and a client_credentials
// client, the same fixture the service was originally bootstrapped with.
func main() {
	dbPath := flag.String("db", "oauth2_sample.sqlite", "SQLite database path")
	username := flag.String("username", "foo", "Username of the client owner")
	password := flag.String("password", "password", "Password of the client owner")
	scopes := flag.String("scopes", "api1 api2", "Default scopes of the client, space-delimited")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.OAuth2Token{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)

	user := getOrCreateUser(userService, *username, *password)

	// Check if the user already owns a client
	existing, err := clientService.GetClientsByUserID(user.ID)
	if err != nil {
		log.Fatal("Failed to look up clients:", err)
	}
	if len(existing) > 0 {
		fmt.Println("Development client already exists!")
		fmt.Printf("Client ID: %s\n", existing[0].ClientID)
		fmt.Printf("Client Secret: %s\n", existing[0].ClientSecret)
		return
	}

	client := &models.Client{
		ClientID:      auth.GenerateClientID(),
		ClientSecret:  auth.GenerateClientSecret(),
		ClientType:    models.ClientTypeConfidential,
		GrantType:     models.GrantTypeClientCredentials,
		DefaultScopes: *scopes,
		ClientName:    fmt.Sprintf("%s's development client", user.Username),
		UserID:        &user.ID,
	}

	if err := clientService.CreateClient(client); err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Println("Development OAuth client created!")
	fmt.Printf("Client ID: %s\n", client.ClientID)
	fmt.Printf("Client Secret: %s\n", client.ClientSecret)
	fmt.Printf("Default scopes: %s\n", client.DefaultScopes)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/oauth2/token \\\n")
	fmt.Printf("  --data-urlencode 'grant_type=client_credentials' \\\n")
	fmt.Printf("  --data-urlencode 'client_id=%s' \\\n", client.ClientID)
	fmt.Printf("  --data-urlencode 'client_secret=%s'\n", client.ClientSecret)
}

// getOrCreateUser finds the named user or creates it with a bcrypt-hashed
// password
func getOrCreateUser(userService services.UserService, username, password string) *models.User {
	if user, err := userService.GetUserByUsername(username); err == nil {
		fmt.Printf("Found existing user: %s (ID: %d)\n", user.Username, user.ID)
		return user
	}

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Name:     username,
	}
	if err := user.SetPassword(password); err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	if err := userService.CreateUser(user); err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("Created new user: %s (ID: %d)\n", user.Username, user.ID)
	return user
}
