package db

import (
	"database/sql"
	"fmt"
	"log"

	"distrofm/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist,
// and seeds the known distribution platforms.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createReleasesTable(); err != nil {
		return err
	}
	if err := createTracksTable(); err != nil {
		return err
	}
	if err := createPlatformsTable(); err != nil {
		return err
	}
	if err := seedPlatforms(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(20),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	log.Println("Users table initialized successfully (or already exists).")
	return nil
}

func createReleasesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS releases (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		genre VARCHAR(50),
		release_date VARCHAR(20),
		upc VARCHAR(20),
		cover_art VARCHAR(767),
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_user_releases FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create releases table: %w", err)
	}
	log.Println("Releases table initialized successfully (or already exists).")
	return nil
}

func createTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id INT AUTO_INCREMENT PRIMARY KEY,
		release_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		isrc VARCHAR(15),
		audio_file VARCHAR(767),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_release_tracks FOREIGN KEY (release_id) REFERENCES releases(id) ON DELETE CASCADE
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}
	log.Println("Tracks table initialized successfully (or already exists).")
	return nil
}

func createPlatformsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS distribution_platforms (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		api_url VARCHAR(767),
		api_key VARCHAR(255),
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create distribution_platforms table: %w", err)
	}
	log.Println("Distribution platforms table initialized successfully (or already exists).")
	return nil
}

// seedPlatforms inserts the known platforms if the table is empty. Credentials
// stay NULL until an administrator configures them.
func seedPlatforms() error {
	var count int
	if err := DB.QueryRow(`SELECT COUNT(*) FROM distribution_platforms`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count distribution platforms: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range []string{"Spotify", "Apple Music", "YouTube"} {
		if _, err := DB.Exec(`INSERT INTO distribution_platforms (name, is_active) VALUES (?, 1)`, name); err != nil {
			return fmt.Errorf("failed to seed platform %s: %w", name, err)
		}
	}
	log.Println("Seeded default distribution platforms.")
	return nil
}
