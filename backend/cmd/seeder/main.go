package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"esomero/backend/internal/marks"
	"esomero/backend/internal/shared"
)

// Development seed data: one admin account plus a small S1A cohort with
// Term 1 marks, enough to exercise the dashboard end to end.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "password"

	SeedClass = "S1A"
	SeedYear  = "2025"
	SeedTerm  = "Term 1"
)

// StudentSeed holds one demo student and their raw Term 1 scores.
type StudentSeed struct {
	ID     string
	Name   string
	Sex    string
	Scores map[string]float64
}

var studentSeeds = []StudentSeed{
	{
		ID: "student-seed-001", Name: "Achen Grace", Sex: "F",
		Scores: map[string]float64{"ENG": 76, "MATH": 81, "CRE": 64, "C/SHIP": 70, "CHEM": 58, "BIOS": 62, "PHY": 55},
	},
	{
		ID: "student-seed-002", Name: "Okello Brian", Sex: "M",
		Scores: map[string]float64{"ENG": 52, "MATH": 47, "CRE": 60, "C/SHIP": 55, "CHEM": 41, "BIOS": 49, "PHY": 38},
	},
	{
		ID: "student-seed-003", Name: "Namutebi Sarah", Sex: "F",
		Scores: map[string]float64{"ENG": 88, "MATH": 92, "CRE": 79, "C/SHIP": 84, "CHEM": 73, "BIOS": 80, "PHY": 77},
	},
}

func main() {
	log.Println("INFO: Starting seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	uri := shared.GetEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := shared.GetEnv("MONGO_DB_NAME", "esomero")

	client, db, err := shared.ConnectMongoDB(shared.DefaultMongoConfig(uri, dbName))
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedAdmin(ctx, db)
	seedStudents(ctx, db)

	log.Println("INFO: Seeding complete.")
}

func seedAdmin(ctx context.Context, db *mongo.Database) {
	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("FATAL: failed to hash admin password: %v", err)
	}

	admin := shared.User{
		ID:           "admin-001",
		Email:        AdminEmail,
		PasswordHash: string(hash),
		Name:         "System Admin",
		Role:         shared.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	update := bson.M{"$set": admin}
	opts := options.Update().SetUpsert(true)
	if _, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": admin.ID}, update, opts); err != nil {
		log.Fatalf("FATAL: failed to seed admin user: %v", err)
	}
	log.Printf("INFO: seeded admin user %s", AdminEmail)
}

func seedStudents(ctx context.Context, db *mongo.Database) {
	students := db.Collection("students")
	markService := marks.NewService(db)

	for _, seed := range studentSeeds {
		doc := shared.Student{
			ID:    seed.ID,
			Name:  seed.Name,
			Class: SeedClass,
			Sex:   seed.Sex,
		}

		update := bson.M{"$set": doc}
		opts := options.Update().SetUpsert(true)
		if _, err := students.UpdateOne(ctx, bson.M{"_id": seed.ID}, update, opts); err != nil {
			log.Fatalf("FATAL: failed to seed student %s: %v", seed.Name, err)
		}

		total, average, status := marks.Summarize(seed.Scores)
		mark := shared.Mark{
			Subjects: seed.Scores,
			Total:    total,
			Average:  average,
			Status:   status,
		}
		if err := markService.SetMark(ctx, seed.ID, SeedYear, SeedTerm, mark); err != nil {
			log.Fatalf("FATAL: failed to seed marks for %s: %v", seed.Name, err)
		}
		log.Printf("INFO: seeded %s (%s %s, average %s)", seed.Name, SeedClass, SeedTerm, shared.FormatScore(average))
	}
}
