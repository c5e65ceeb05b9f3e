package applications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/internal/pets"
	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
)

type fakeAppsRepo struct {
	apps map[uuid.UUID]*models.Application

	statusUpdates    map[uuid.UUID]enums.ApplicationStatus
	rejectedSiblings bool
	approvedSiblings int64
	listByAdopterIDs []uuid.UUID
	receivedFilters  *ReceivedFilters
}

func newFakeAppsRepo() *fakeAppsRepo {
	return &fakeAppsRepo{
		apps:          map[uuid.UUID]*models.Application{},
		statusUpdates: map[uuid.UUID]enums.ApplicationStatus{},
	}
}

func (f *fakeAppsRepo) add(app *models.Application) *models.Application {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	f.apps[app.ID] = app
	return app
}

func (f *fakeAppsRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeAppsRepo) Create(ctx context.Context, app *models.Application) error {
	app.ID = uuid.New()
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if app, ok := f.apps[id]; ok {
		return app, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAppsRepo) FindByAdopterAndPet(ctx context.Context, adopterID, petID uuid.UUID) (*models.Application, error) {
	for _, app := range f.apps {
		if app.AdopterID == adopterID && app.PetID == petID {
			return app, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAppsRepo) ListByAdopter(ctx context.Context, adopterID uuid.UUID, petIDs []uuid.UUID) ([]models.Application, error) {
	f.listByAdopterIDs = petIDs
	var out []models.Application
	for _, app := range f.apps {
		if app.AdopterID == adopterID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppsRepo) ListReceived(ctx context.Context, shelterID uuid.UUID, filters ReceivedFilters) ([]models.Application, error) {
	f.receivedFilters = &filters
	var out []models.Application
	for _, app := range f.apps {
		if app.ShelterID != shelterID {
			continue
		}
		if filters.Status != "" && app.Status != filters.Status {
			continue
		}
		if filters.PetID != nil && app.PetID != *filters.PetID {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (f *fakeAppsRepo) ListByPet(ctx context.Context, petID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	for _, app := range f.apps {
		if app.PetID == petID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
	f.statusUpdates[id] = status
	if app, ok := f.apps[id]; ok {
		app.Status = status
	}
	return nil
}

func (f *fakeAppsRepo) RejectPendingSiblings(ctx context.Context, petID, exceptID uuid.UUID) error {
	f.rejectedSiblings = true
	for _, app := range f.apps {
		if app.PetID == petID && app.ID != exceptID && app.Status == enums.ApplicationPendiente {
			app.Status = enums.ApplicationRechazada
		}
	}
	return nil
}

func (f *fakeAppsRepo) CountApprovedSiblings(ctx context.Context, petID, exceptID uuid.UUID) (int64, error) {
	return f.approvedSiblings, nil
}

type fakePetStore struct {
	pets map[uuid.UUID]*models.Pet

	statusUpdates   map[uuid.UUID]enums.AdoptionStatus
	nameLikeResults []uuid.UUID
	nameLikeCalled  bool
}

func newFakePetStore() *fakePetStore {
	return &fakePetStore{
		pets:          map[uuid.UUID]*models.Pet{},
		statusUpdates: map[uuid.UUID]enums.AdoptionStatus{},
	}
}

func (f *fakePetStore) add(pet *models.Pet) *models.Pet {
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	f.pets[pet.ID] = pet
	return pet
}

func (f *fakePetStore) WithTx(tx *gorm.DB) pets.Repository { return f }

func (f *fakePetStore) Create(ctx context.Context, pet *models.Pet) error {
	pet.ID = uuid.New()
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	if pet, ok := f.pets[id]; ok {
		return pet, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePetStore) FindByIDWithShelter(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	return f.FindByID(ctx, id)
}

func (f *fakePetStore) Count(ctx context.Context, filters pets.Filters) (int64, error) {
	return int64(len(f.pets)), nil
}

func (f *fakePetStore) List(ctx context.Context, filters pets.Filters, limit, offset int, withShelter bool) ([]models.Pet, error) {
	return nil, nil
}

func (f *fakePetStore) ListNames(ctx context.Context, filters pets.Filters, limit, offset int) ([]models.Pet, error) {
	return nil, nil
}

func (f *fakePetStore) FindIDsByNameLike(ctx context.Context, name string) ([]uuid.UUID, error) {
	f.nameLikeCalled = true
	return f.nameLikeResults, nil
}

func (f *fakePetStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Pet, error) {
	return f.FindByID(ctx, id)
}

func (f *fakePetStore) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AdoptionStatus) error {
	f.statusUpdates[id] = status
	if pet, ok := f.pets[id]; ok {
		pet.Status = status
	}
	return nil
}

func (f *fakePetStore) DeleteWithApplications(ctx context.Context, id uuid.UUID) error {
	delete(f.pets, id)
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, apps Repository, petStore pets.Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: apps, PetsRepo: petStore, Transactor: fakeTx{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func strPtr(s string) *string { return &s }

func TestSubmit_CreatesPendingApplication(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	adopterID := uuid.New()
	pet := petStore.add(&models.Pet{
		Name:      "Luna",
		ShelterID: shelterID,
		Status:    enums.AdoptionDisponible,
	})
	svc := newTestService(t, appsRepo, petStore)

	dto, err := svc.Submit(context.Background(), pet.ID, adopterID, SubmitRequest{
		Message: strPtr("  I have a big garden.  "),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Status != enums.ApplicationPendiente {
		t.Errorf("status = %s, want %s", dto.Status, enums.ApplicationPendiente)
	}
	if dto.ShelterID != shelterID {
		t.Errorf("shelter id not copied from pet")
	}
	if dto.Message == nil || *dto.Message != "I have a big garden." {
		t.Errorf("message = %v, want trimmed text", dto.Message)
	}
}

func TestSubmit_BlankMessageStoredAsNull(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	pet := petStore.add(&models.Pet{Name: "Rocky", ShelterID: uuid.New(), Status: enums.AdoptionDisponible})
	svc := newTestService(t, appsRepo, petStore)

	dto, err := svc.Submit(context.Background(), pet.ID, uuid.New(), SubmitRequest{Message: strPtr("   ")})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Message != nil {
		t.Errorf("message = %q, want nil", *dto.Message)
	}
}

func TestSubmit_PetNotAvailable(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	pet := petStore.add(&models.Pet{Name: "Max", ShelterID: uuid.New(), Status: enums.AdoptionAdoptado})
	svc := newTestService(t, appsRepo, petStore)

	_, err := svc.Submit(context.Background(), pet.ID, uuid.New(), SubmitRequest{})
	assertCode(t, err, pkgerrors.CodeValidation)
	if len(appsRepo.apps) != 0 {
		t.Errorf("application was created for an unavailable pet")
	}
}

func TestSubmit_PetNotFound(t *testing.T) {
	svc := newTestService(t, newFakeAppsRepo(), newFakePetStore())

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), SubmitRequest{})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmit_OwnPetRejected(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Nala", ShelterID: shelterID, Status: enums.AdoptionDisponible})
	svc := newTestService(t, appsRepo, petStore)

	_, err := svc.Submit(context.Background(), pet.ID, shelterID, SubmitRequest{})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmit_DuplicateApplication(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	adopterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Toby", ShelterID: uuid.New(), Status: enums.AdoptionDisponible})
	appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: adopterID,
		ShelterID: pet.ShelterID,
		Status:    enums.ApplicationPendiente,
	})
	svc := newTestService(t, appsRepo, petStore)

	_, err := svc.Submit(context.Background(), pet.ID, adopterID, SubmitRequest{})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestListMine_PetNameFilterWithNoMatches(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	adopterID := uuid.New()
	appsRepo.add(&models.Application{AdopterID: adopterID, PetID: uuid.New(), ShelterID: uuid.New()})
	svc := newTestService(t, appsRepo, petStore)

	dtos, err := svc.ListMine(context.Background(), adopterID, "nonexistent")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(dtos) != 0 {
		t.Errorf("got %d applications, want 0", len(dtos))
	}
	if !petStore.nameLikeCalled {
		t.Errorf("name lookup was not used")
	}
}

func TestListMine_PetNameFilterNarrowsQuery(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	matched := uuid.New()
	petStore.nameLikeResults = []uuid.UUID{matched}
	svc := newTestService(t, appsRepo, petStore)

	if _, err := svc.ListMine(context.Background(), uuid.New(), "lun"); err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(appsRepo.listByAdopterIDs) != 1 || appsRepo.listByAdopterIDs[0] != matched {
		t.Errorf("pet id filter not forwarded to repository")
	}
}

func TestListReceived_InvalidStatusFilter(t *testing.T) {
	svc := newTestService(t, newFakeAppsRepo(), newFakePetStore())

	_, err := svc.ListReceived(context.Background(), uuid.New(), "Desaparecida", "")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestListReceived_MalformedPetIDIgnored(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	svc := newTestService(t, appsRepo, newFakePetStore())

	if _, err := svc.ListReceived(context.Background(), uuid.New(), "Pendiente", "not-a-uuid"); err != nil {
		t.Fatalf("list received: %v", err)
	}
	if appsRepo.receivedFilters.PetID != nil {
		t.Errorf("malformed pet id was not dropped")
	}
	if appsRepo.receivedFilters.Status != enums.ApplicationPendiente {
		t.Errorf("status filter = %s, want %s", appsRepo.receivedFilters.Status, enums.ApplicationPendiente)
	}
}

func TestListForPet_RequiresOwnershipOrAdmin(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	pet := petStore.add(&models.Pet{Name: "Coco", ShelterID: uuid.New(), Status: enums.AdoptionDisponible})
	svc := newTestService(t, appsRepo, petStore)

	_, err := svc.ListForPet(context.Background(), pet.ID, uuid.New(), enums.RoleRefugio)
	assertCode(t, err, pkgerrors.CodeForbidden)

	if _, err := svc.ListForPet(context.Background(), pet.ID, uuid.New(), enums.RoleAdmin); err != nil {
		t.Fatalf("admin list for pet: %v", err)
	}
}

func TestCheckMineForPet(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	adopterID := uuid.New()
	petID := uuid.New()
	svc := newTestService(t, appsRepo, petStore)

	res, err := svc.CheckMineForPet(context.Background(), petID, adopterID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.HasApplication || res.Status != nil {
		t.Errorf("expected no application, got %+v", res)
	}

	appsRepo.add(&models.Application{
		PetID:     petID,
		AdopterID: adopterID,
		ShelterID: uuid.New(),
		Status:    enums.ApplicationContactado,
	})

	res, err = svc.CheckMineForPet(context.Background(), petID, adopterID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.HasApplication || res.Status == nil || *res.Status != enums.ApplicationContactado {
		t.Errorf("expected Contactado application, got %+v", res)
	}
}

func TestSetStatus_ApproveMarksPetAdoptedAndRejectsPending(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Kira", ShelterID: shelterID, Status: enums.AdoptionDisponible})
	winner := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationPendiente,
	})
	pending := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationPendiente,
	})
	contacted := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationContactado,
	})
	svc := newTestService(t, appsRepo, petStore)

	dto, err := svc.SetStatus(context.Background(), winner.ID, shelterID, enums.RoleRefugio, "Aprobada")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if dto.Status != enums.ApplicationAprobada {
		t.Errorf("status = %s, want Aprobada", dto.Status)
	}
	if petStore.statusUpdates[pet.ID] != enums.AdoptionAdoptado {
		t.Errorf("pet was not marked adopted")
	}
	if pending.Status != enums.ApplicationRechazada {
		t.Errorf("pending sibling not rejected, status = %s", pending.Status)
	}
	if contacted.Status != enums.ApplicationContactado {
		t.Errorf("contacted sibling should survive approval, status = %s", contacted.Status)
	}
}

func TestSetStatus_ReversalRevertsPetWhenNoApprovedSiblings(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Milo", ShelterID: shelterID, Status: enums.AdoptionAdoptado})
	app := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationAprobada,
	})
	svc := newTestService(t, appsRepo, petStore)

	if _, err := svc.SetStatus(context.Background(), app.ID, shelterID, enums.RoleRefugio, "Rechazada"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if petStore.statusUpdates[pet.ID] != enums.AdoptionDisponible {
		t.Errorf("pet should revert to Disponible")
	}
}

func TestSetStatus_ReversalKeepsPetAdoptedWithApprovedSibling(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Simba", ShelterID: shelterID, Status: enums.AdoptionAdoptado})
	app := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationAprobada,
	})
	appsRepo.approvedSiblings = 1
	svc := newTestService(t, appsRepo, petStore)

	if _, err := svc.SetStatus(context.Background(), app.ID, shelterID, enums.RoleRefugio, "Rechazada"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if _, changed := petStore.statusUpdates[pet.ID]; changed {
		t.Errorf("pet status should not change while a sibling stays approved")
	}
}

func TestSetStatus_ContactadoDoesNotTouchPet(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	shelterID := uuid.New()
	pet := petStore.add(&models.Pet{Name: "Bimba", ShelterID: shelterID, Status: enums.AdoptionDisponible})
	app := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: shelterID,
		Status:    enums.ApplicationPendiente,
	})
	svc := newTestService(t, appsRepo, petStore)

	dto, err := svc.SetStatus(context.Background(), app.ID, shelterID, enums.RoleRefugio, "Contactado")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if dto.Status != enums.ApplicationContactado {
		t.Errorf("status = %s, want Contactado", dto.Status)
	}
	if len(petStore.statusUpdates) != 0 {
		t.Errorf("pet status should not change on Contactado")
	}
	if appsRepo.rejectedSiblings {
		t.Errorf("siblings should not be rejected on Contactado")
	}
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	svc := newTestService(t, newFakeAppsRepo(), newFakePetStore())

	_, err := svc.SetStatus(context.Background(), uuid.New(), uuid.New(), enums.RoleAdmin, "Cancelada")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSetStatus_ApplicationNotFound(t *testing.T) {
	svc := newTestService(t, newFakeAppsRepo(), newFakePetStore())

	_, err := svc.SetStatus(context.Background(), uuid.New(), uuid.New(), enums.RoleAdmin, "Aprobada")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetStatus_NonOwnerForbidden(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	pet := petStore.add(&models.Pet{Name: "Greta", ShelterID: uuid.New(), Status: enums.AdoptionDisponible})
	app := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: pet.ShelterID,
		Status:    enums.ApplicationPendiente,
	})
	svc := newTestService(t, appsRepo, petStore)

	_, err := svc.SetStatus(context.Background(), app.ID, uuid.New(), enums.RoleRefugio, "Aprobada")
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestSetStatus_AdminOverridesOwnership(t *testing.T) {
	appsRepo := newFakeAppsRepo()
	petStore := newFakePetStore()
	pet := petStore.add(&models.Pet{Name: "Thor", ShelterID: uuid.New(), Status: enums.AdoptionDisponible})
	app := appsRepo.add(&models.Application{
		PetID:     pet.ID,
		AdopterID: uuid.New(),
		ShelterID: pet.ShelterID,
		Status:    enums.ApplicationPendiente,
	})
	svc := newTestService(t, appsRepo, petStore)

	dto, err := svc.SetStatus(context.Background(), app.ID, uuid.New(), enums.RoleAdmin, "Aprobada")
	if err != nil {
		t.Fatalf("admin set status: %v", err)
	}
	if dto.Status != enums.ApplicationAprobada {
		t.Errorf("status = %s, want Aprobada", dto.Status)
	}
}
