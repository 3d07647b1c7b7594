package seed

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"siamestates_backend/internal/model"
)

// SeedAdminUser ensures a bootstrap admin account exists.
func SeedAdminUser(db *gorm.DB, email, password string) {
	if email == "" || password == "" {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := model.User{
		Email:    email,
		Password: string(hashed),
		Username: "admin",
		Role:     model.RoleAdmin,
	}

	result := db.FirstOrCreate(&admin, model.User{Email: email})
	if result.Error != nil {
		log.Printf("Error creating admin user: %v", result.Error)
		return
	}

	log.Println("Admin user seeded successfully!")
}

// SeedInternalLinks installs the default keyword links used by the blog
// publisher when none are configured yet.
func SeedInternalLinks(db *gorm.DB) {
	links := []model.InternalLink{
		{Keyword: "property transfer fee", TargetURL: "/tools/transfer-fee-calculator"},
		{Keyword: "buying a condo in Thailand", TargetURL: "/guides/condo-buying"},
		{Keyword: "investment properties", TargetURL: "/properties?interest=investing"},
		{Keyword: "Bangkok condos", TargetURL: "/properties?province=Bangkok&type=Condo"},
	}

	for _, link := range links {
		result := db.FirstOrCreate(&link, model.InternalLink{Keyword: link.Keyword})
		if result.Error != nil {
			log.Printf("Error creating internal link %q: %v", link.Keyword, result.Error)
		}
	}

	log.Println("Internal links seeded successfully!")
}
