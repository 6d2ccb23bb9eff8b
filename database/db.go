package database

import (
	"fmt"
	"log"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/stevnathans/hustlecare-sub001/config"

	"github.com/stevnathans/hustlecare-sub001/models"
)

var DB *gorm.DB

func ConnectDatabase() {
	cfg := config.LoadConfig()
	connectionString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBName, cfg.DBPassword)

	var err error
	DB, err = gorm.Open("postgres", connectionString)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}

	Migrate(DB)
}

// Migrate runs auto-migration for every model. The unique indexes on
// carts (user_id, business_id) and links (business_id, requirement_template_id)
// make a concurrent duplicate insert fail loudly instead of creating a
// second row.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.RequirementTemplate{},
		&models.BusinessRequirement{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.SharedBusiness{},
	)
}
