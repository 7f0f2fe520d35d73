package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.LibsqlURL, cfg.LibsqlAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Company{}, &models.Profile{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Platform Admin ===")
	fmt.Println()

	fmt.Print("First name: ")
	firstName, _ := reader.ReadString('\n')
	firstName = strings.TrimSpace(firstName)

	fmt.Print("Last name: ")
	lastName, _ := reader.ReadString('\n')
	lastName = strings.TrimSpace(lastName)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Company name (optional): ")
	companyName, _ := reader.ReadString('\n')
	companyName = strings.TrimSpace(companyName)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if firstName == "" || email == "" || password == "" {
		log.Fatal("First name, email, and password are required")
	}

	admin, err := services.CreateAdminAccount(db.DB, services.AdminSetupInput{
		Email:       email,
		Password:    password,
		FirstName:   firstName,
		LastName:    lastName,
		CompanyName: companyName,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Println()
	fmt.Println("Admin created successfully!")
	fmt.Printf("  ID: %s\n", admin.ID)
	fmt.Printf("  Name: %s\n", admin.FullName())
	fmt.Printf("  Email: %s\n", admin.Email)
	if admin.CompanyID != nil {
		fmt.Printf("  Company ID: %s\n", *admin.CompanyID)
	}
}
