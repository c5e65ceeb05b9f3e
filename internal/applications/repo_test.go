package applications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	applications := `
CREATE TABLE IF NOT EXISTS applications (
  id TEXT PRIMARY KEY,
  pet_id TEXT NOT NULL,
  adopter_id TEXT NOT NULL,
  shelter_id TEXT NOT NULL,
  message TEXT,
  status TEXT NOT NULL,
  submitted_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(applications).Error; err != nil {
		t.Fatalf("create applications table: %v", err)
	}
	return db
}

func seedApp(t *testing.T, db *gorm.DB, petID, adopterID uuid.UUID, status enums.ApplicationStatus) *models.Application {
	t.Helper()

	app := &models.Application{
		ID:          uuid.New(),
		PetID:       petID,
		AdopterID:   adopterID,
		ShelterID:   uuid.New(),
		Status:      status,
		SubmittedAt: time.Now(),
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

func TestRepositoryRejectPendingSiblings(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	petID := uuid.New()

	winner := seedApp(t, db, petID, uuid.New(), enums.ApplicationPendiente)
	pending := seedApp(t, db, petID, uuid.New(), enums.ApplicationPendiente)
	contacted := seedApp(t, db, petID, uuid.New(), enums.ApplicationContactado)
	unrelated := seedApp(t, db, uuid.New(), uuid.New(), enums.ApplicationPendiente)

	if err := repo.RejectPendingSiblings(context.Background(), petID, winner.ID); err != nil {
		t.Fatalf("reject siblings: %v", err)
	}

	reload := func(id uuid.UUID) enums.ApplicationStatus {
		app, err := repo.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		return app.Status
	}

	if got := reload(winner.ID); got != enums.ApplicationPendiente {
		t.Errorf("winner status = %s, want untouched Pendiente", got)
	}
	if got := reload(pending.ID); got != enums.ApplicationRechazada {
		t.Errorf("pending sibling status = %s, want Rechazada", got)
	}
	if got := reload(contacted.ID); got != enums.ApplicationContactado {
		t.Errorf("contacted sibling status = %s, want untouched Contactado", got)
	}
	if got := reload(unrelated.ID); got != enums.ApplicationPendiente {
		t.Errorf("other pet's application status = %s, want untouched", got)
	}
}

func TestRepositoryCountApprovedSiblings(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	petID := uuid.New()

	reversed := seedApp(t, db, petID, uuid.New(), enums.ApplicationAprobada)
	seedApp(t, db, petID, uuid.New(), enums.ApplicationAprobada)
	seedApp(t, db, petID, uuid.New(), enums.ApplicationPendiente)
	seedApp(t, db, uuid.New(), uuid.New(), enums.ApplicationAprobada)

	count, err := repo.CountApprovedSiblings(context.Background(), petID, reversed.ID)
	if err != nil {
		t.Fatalf("count approved siblings: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestRepositoryFindByAdopterAndPet(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)
	petID := uuid.New()
	adopterID := uuid.New()

	seeded := seedApp(t, db, petID, adopterID, enums.ApplicationPendiente)

	found, err := repo.FindByAdopterAndPet(context.Background(), adopterID, petID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != seeded.ID {
		t.Errorf("found %s, want %s", found.ID, seeded.ID)
	}

	_, err = repo.FindByAdopterAndPet(context.Background(), uuid.New(), petID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRepository(db)

	app := seedApp(t, db, uuid.New(), uuid.New(), enums.ApplicationPendiente)

	if err := repo.UpdateStatus(context.Background(), app.ID, enums.ApplicationAprobada); err != nil {
		t.Fatalf("update status: %v", err)
	}
	reloaded, err := repo.FindByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != enums.ApplicationAprobada {
		t.Errorf("status = %s, want Aprobada", reloaded.Status)
	}
}
