package database

import (
	"fmt"
	"log"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/scoring"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.AssessmentResponse{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedQuestions(db); err != nil {
		return nil, err
	}
	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedQuestions installs the default HATS question bank when the table is
// empty: two questions per category for the individual assessment, three per
// category for the team assessment, all on a 1-4 point scale.
func seedQuestions(db *gorm.DB) error {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		return nil
	}

	options := model.DefaultOptionScale()

	individual := map[scoring.Category][]string{
		scoring.CategoryHabit: {
			"I follow a consistent daily routine that supports my leadership goals.",
			"I regularly review how I spend my time and adjust my habits.",
		},
		scoring.CategoryAbility: {
			"I can adapt my communication style to different audiences.",
			"I learn new skills quickly when my role demands them.",
		},
		scoring.CategoryTalent: {
			"People naturally look to me for direction in group settings.",
			"I instinctively spot opportunities others miss.",
		},
		scoring.CategorySkill: {
			"I have a repeatable process for delegating and following up.",
			"I run meetings that consistently end with clear action items.",
		},
	}

	team := map[scoring.Category][]string{
		scoring.CategoryHabit: {
			"Our team starts each week with a shared set of priorities.",
			"We hold a regular retrospective and act on what we learn.",
			"Team members consistently prepare before key meetings.",
		},
		scoring.CategoryAbility: {
			"Our team adapts quickly when plans change.",
			"We resolve disagreements without losing momentum.",
			"Team members cover for each other's skill gaps effectively.",
		},
		scoring.CategoryTalent: {
			"Our team has people who naturally energize the room.",
			"Individual strengths are matched well to responsibilities.",
			"We generate more ideas than we have time to pursue.",
		},
		scoring.CategorySkill: {
			"Our team has documented processes for recurring work.",
			"Handoffs between team members rarely drop information.",
			"We track commitments and close the loop on every one.",
		},
	}

	order := 0
	seed := func(assessmentType model.AssessmentType, bank map[scoring.Category][]string) error {
		for _, category := range scoring.Categories() {
			for _, text := range bank[category] {
				order++
				q := model.Question{
					AssessmentType: assessmentType,
					Category:       category,
					Text:           text,
					Options:        options,
					Order:          order,
				}
				if err := db.Create(&q).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := seed(model.AssessmentIndividual, individual); err != nil {
		return err
	}
	return seed(model.AssessmentTeam, team)
}

// seedAdmin guarantees at least one admin account exists so question
// management is reachable on a fresh install. The password must be rotated
// immediately in any real deployment.
func seedAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("change-me-now"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		FullName:       "Site Admin",
		Email:          "admin@localhost",
		Password:       string(hashed),
		Role:           model.RoleAdmin,
		EmailConfirmed: true,
	}
	return db.Create(&admin).Error
}
