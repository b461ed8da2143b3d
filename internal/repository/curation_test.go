package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gene-validity-server/internal/database"
	"github.com/gene-validity-server/internal/domain"
)

// generateTestPassword creates a secure random password for test databases
func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

func setupTestDB(t *testing.T) (*database.DB, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	testPassword := generateTestPassword()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	config := &domain.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		Database:        "testdb",
		Username:        "testuser",
		Password:        testPassword,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(ctx, config, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}

	databaseURL := "postgres://testuser:" + testPassword + "@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	migrationRunner, err := database.NewMigrationRunner(databaseURL, "../../migrations", logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}

	if err := migrationRunner.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		migrationRunner.Close()
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}

	return db, cleanup
}

func newTestRepo(db *database.DB) *CurationRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewCurationRepository(db.Pool, logger)
}

func testCuration() *domain.CurationRecord {
	return &domain.CurationRecord{
		GeneSymbol:        "CACNA1A",
		DiseaseID:         "MONDO:0011153",
		DiseaseName:       "episodic ataxia type 2",
		ModeOfInheritance: "autosomal dominant",
		Curator:           "curator@example.org",
		EvidenceData: domain.EvidenceDocument{
			Genetic: domain.GeneticEvidence{
				CaseLevel: domain.CaseLevelGroup{
					ADXL: domain.VariantBuckets{
						PredictedOrProvenNull: []domain.CaseLevelEvidence{
							{Label: "proband 1", ScoreStatus: domain.StatusScore, ProbandCountedPoints: 1.5},
						},
					},
				},
			},
		},
	}
}

func TestCurationRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	curation := testCuration()
	if err := repo.Create(ctx, curation); err != nil {
		t.Fatalf("Failed to create curation: %v", err)
	}

	if curation.Status != domain.CurationDraft {
		t.Errorf("Expected new curation in draft, got %s", curation.Status)
	}
	if curation.LockVersion != 0 {
		t.Errorf("Expected lock version 0, got %d", curation.LockVersion)
	}

	retrieved, err := repo.GetByID(ctx, curation.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve curation: %v", err)
	}

	if retrieved.GeneSymbol != "CACNA1A" {
		t.Errorf("Expected gene symbol CACNA1A, got %s", retrieved.GeneSymbol)
	}
	if len(retrieved.EvidenceData.Genetic.CaseLevel.ADXL.PredictedOrProvenNull) != 1 {
		t.Error("Evidence document did not round-trip through JSONB")
	}
}

func TestCurationRepository_GetByGeneDisease(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	curation := testCuration()
	if err := repo.Create(ctx, curation); err != nil {
		t.Fatalf("Failed to create curation: %v", err)
	}

	retrieved, err := repo.GetByGeneDisease(ctx, "CACNA1A", "MONDO:0011153", "autosomal dominant")
	if err != nil {
		t.Fatalf("Failed to retrieve by gene-disease pair: %v", err)
	}
	if retrieved.ID != curation.ID {
		t.Errorf("Expected ID %s, got %s", curation.ID, retrieved.ID)
	}

	_, err = repo.GetByGeneDisease(ctx, "CACNA1A", "MONDO:9999999", "autosomal dominant")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCurationRepository_OptimisticLocking(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	curation := testCuration()
	if err := repo.Create(ctx, curation); err != nil {
		t.Fatalf("Failed to create curation: %v", err)
	}

	curation.DiseaseName = "episodic ataxia type 2 (updated)"
	if err := repo.Update(ctx, curation); err != nil {
		t.Fatalf("Failed to update curation: %v", err)
	}
	if curation.LockVersion != 1 {
		t.Errorf("Expected lock version 1 after update, got %d", curation.LockVersion)
	}

	// A writer holding the old version must be rejected
	stale := testCuration()
	stale.ID = curation.ID
	stale.LockVersion = 0
	err := repo.Update(ctx, stale)
	if !errors.Is(err, domain.ErrStaleRecord) {
		t.Errorf("Expected ErrStaleRecord, got %v", err)
	}
}

func TestCurationRepository_UpdateMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	missing := testCuration()
	missing.ID = uuid.New()
	err := repo.Update(ctx, missing)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCurationRepository_StatusTransitions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	curation := testCuration()
	if err := repo.Create(ctx, curation); err != nil {
		t.Fatalf("Failed to create curation: %v", err)
	}

	submitted, err := repo.TransitionStatus(ctx, curation.ID, domain.CurationSubmitted, curation.LockVersion)
	if err != nil {
		t.Fatalf("Failed to submit curation: %v", err)
	}
	if submitted.Status != domain.CurationSubmitted {
		t.Errorf("Expected submitted status, got %s", submitted.Status)
	}

	// Skipping review is not a legal transition
	_, err = repo.TransitionStatus(ctx, curation.ID, domain.CurationActive, submitted.LockVersion)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}

	inReview, err := repo.TransitionStatus(ctx, curation.ID, domain.CurationInReview, submitted.LockVersion)
	if err != nil {
		t.Fatalf("Failed to move curation to review: %v", err)
	}

	active, err := repo.TransitionStatus(ctx, curation.ID, domain.CurationActive, inReview.LockVersion)
	if err != nil {
		t.Fatalf("Failed to approve curation: %v", err)
	}
	if active.Status != domain.CurationActive {
		t.Errorf("Expected active status, got %s", active.Status)
	}

	// Stale lock version on transition
	_, err = repo.TransitionStatus(ctx, curation.ID, domain.CurationRejected, 0)
	if !errors.Is(err, domain.ErrStaleRecord) {
		t.Errorf("Expected ErrStaleRecord, got %v", err)
	}
}

func TestCurationRepository_ListByStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	first := testCuration()
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Failed to create first curation: %v", err)
	}

	second := testCuration()
	second.DiseaseID = "MONDO:0011001"
	second.DiseaseName = "familial hemiplegic migraine"
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Failed to create second curation: %v", err)
	}

	drafts, err := repo.ListByStatus(ctx, domain.CurationDraft, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list drafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("Expected 2 drafts, got %d", len(drafts))
	}
}

func TestCurationRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	curation := testCuration()
	if err := repo.Create(ctx, curation); err != nil {
		t.Fatalf("Failed to create curation: %v", err)
	}

	if err := repo.Delete(ctx, curation.ID); err != nil {
		t.Fatalf("Failed to delete curation: %v", err)
	}

	_, err := repo.GetByID(ctx, curation.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, curation.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}
