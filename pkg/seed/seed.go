package seed

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stacklist_backend/internal/model"
)

func SeedDemoListings(db *gorm.DB) {
	listings := []model.Submission{
		{
			Title:       "Postmark CLI",
			URL:         "https://postmarkcli.dev",
			Description: "Command-line client for inspecting and replaying transactional email events from your terminal.",
			Category:    model.CategoryDevTools,
			Tags:        datatypes.JSON([]byte(`["cli","email","debugging"]`)),
			Email:       "demo@stacklist.dev",
			Status:      model.StatusApproved,
			Tier:        model.TierFree,
		},
		{
			Title:       "Chartbrew",
			URL:         "https://chartbrew.example.com",
			Description: "Connect databases and APIs to build live client dashboards without writing frontend code.",
			Category:    model.CategorySoftware,
			Tags:        datatypes.JSON([]byte(`["dashboards","analytics","reporting"]`)),
			Email:       "demo@stacklist.dev",
			Status:      model.StatusApproved,
			Tier:        model.TierFree,
		},
		{
			Title:       "Promptpad",
			URL:         "https://promptpad.example.com",
			Description: "Versioned prompt workspace for teams shipping LLM features, with diff review and eval runs.",
			Category:    model.CategoryAI,
			Tags:        datatypes.JSON([]byte(`["llm","prompts","evals"]`)),
			Email:       "demo@stacklist.dev",
			Status:      model.StatusApproved,
			Tier:        model.TierFree,
		},
	}

	for _, listing := range listings {
		result := db.FirstOrCreate(&listing, model.Submission{URL: listing.URL})
		if result.Error != nil {
			log.Printf("Error seeding listing %s: %v", listing.Title, result.Error)
		}
	}

	log.Println("Demo listings seeded successfully!")
}
